package filesystem

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/kecbigmt/mm-sub003/internal/item"
)

// frontmatter is the YAML header of an item file.
type frontmatter struct {
	ID        string    `yaml:"id"`
	Directory string    `yaml:"directory"`
	Rank      string    `yaml:"rank"`
	Alias     string    `yaml:"alias,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

func (f frontmatter) validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.Directory, validation.Required),
		validation.Field(&f.Rank, validation.Required),
		validation.Field(&f.CreatedAt, validation.Required),
	)
}

const fence = "---"

// decodeItem parses a raw item file into a record and its markdown body.
func decodeItem(raw []byte) (*item.Record, string, error) {
	text := string(raw)
	if !strings.HasPrefix(text, fence+"\n") {
		return nil, "", fmt.Errorf("missing frontmatter fence")
	}
	rest := text[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return nil, "", fmt.Errorf("unterminated frontmatter")
	}
	header := rest[:end+1]
	body := rest[end+1+len(fence):]
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	if err := fm.validate(); err != nil {
		return nil, "", fmt.Errorf("invalid frontmatter: %w", err)
	}

	placement, err := item.ParsePlacement(fm.Directory)
	if err != nil {
		return nil, "", err
	}
	rank, err := item.ParseRank(fm.Rank)
	if err != nil {
		return nil, "", err
	}

	return &item.Record{
		ID:        fm.ID,
		Directory: placement,
		Rank:      rank,
		Alias:     fm.Alias,
		CreatedAt: fm.CreatedAt,
	}, body, nil
}

// encodeItem renders a record and body as an item file.
func encodeItem(rec *item.Record, body string) ([]byte, error) {
	fm := frontmatter{
		ID:        rec.ID,
		Directory: rec.Directory.String(),
		Rank:      string(rec.Rank),
		Alias:     rec.Alias,
		CreatedAt: rec.CreatedAt,
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(fence + "\n")
	b.Write(header)
	b.WriteString(fence + "\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), nil
}
