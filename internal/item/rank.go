package item

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Rank is an opaque sort key ordering siblings within a placement.
// Comparison is raw byte order; two items may legitimately share a rank.
type Rank string

// RankMaxLength bounds the length of a rank key.
const RankMaxLength = 30

var rankPattern = regexp.MustCompile(`^[0-9A-Za-z:]+$`)

// ParseRank validates raw and returns it as a Rank.
func ParseRank(raw string) (Rank, error) {
	err := validation.Validate(raw,
		validation.Required,
		validation.Length(1, RankMaxLength),
		validation.Match(rankPattern),
	)
	if err != nil {
		return "", fmt.Errorf("rank %q: %v: %w", raw, err, ErrBadRank)
	}
	return Rank(raw), nil
}

// Compare returns -1, 0, or 1 comparing r to other byte-wise.
func (r Rank) Compare(other Rank) int {
	return strings.Compare(string(r), string(other))
}
