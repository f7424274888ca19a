package item

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// HeadKind discriminates the root of a placement.
type HeadKind string

const (
	HeadDate      HeadKind = "date"
	HeadItem      HeadKind = "item"
	HeadPermanent HeadKind = "permanent"
)

// Placement is the logical location of an item: a head (calendar date,
// parent item, or the permanent bucket) plus a numeric section path.
// Date is set only for HeadDate, Parent only for HeadItem.
type Placement struct {
	Head    HeadKind
	Date    string // ISO date, "2006-01-02"
	Parent  string // parent item ID
	Section []int  // nested sub-bins, each >= 1
}

var (
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	itemIDPattern = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z-]*$`)
)

// ParsePlacement parses the frontmatter form of a placement:
//
//	"2025-01-15", "2025-01-15/1/2", "permanent/3", "<itemId>/1"
//
// The head segment is "permanent", an ISO calendar date, or an item ID;
// every remaining segment must be an integer >= 1.
func ParsePlacement(raw string) (Placement, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Placement{}, fmt.Errorf("placement is empty: %w", ErrMalformedHead)
	}
	segs := strings.Split(raw, "/")

	var p Placement
	head := segs[0]
	switch {
	case head == "permanent":
		p.Head = HeadPermanent
	case datePattern.MatchString(head):
		if _, err := time.Parse("2006-01-02", head); err != nil {
			return Placement{}, fmt.Errorf("placement head %q: %w", head, ErrMalformedHead)
		}
		p.Head = HeadDate
		p.Date = head
	case itemIDPattern.MatchString(head):
		p.Head = HeadItem
		p.Parent = head
	default:
		return Placement{}, fmt.Errorf("placement head %q: %w", head, ErrMalformedHead)
	}

	for _, seg := range segs[1:] {
		n, err := strconv.Atoi(seg)
		if err != nil || n < 1 {
			return Placement{}, fmt.Errorf("placement section %q: %w", seg, ErrBadSection)
		}
		p.Section = append(p.Section, n)
	}
	return p, nil
}

// DirPath returns the canonical directory path for this placement:
//
//	dates/<ISO date>[/<section...>]
//	parents/<itemId>[/<section...>]
//	permanent[/<section...>]
//
// This mapping is the single source of truth for path derivation; the graph
// writer and the integrity checker both use it verbatim.
func (p Placement) DirPath() string {
	var b strings.Builder
	switch p.Head {
	case HeadDate:
		b.WriteString("dates/")
		b.WriteString(p.Date)
	case HeadItem:
		b.WriteString("parents/")
		b.WriteString(p.Parent)
	case HeadPermanent:
		b.WriteString("permanent")
	}
	for _, n := range p.Section {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// String returns the frontmatter form, the inverse of ParsePlacement.
func (p Placement) String() string {
	var head string
	switch p.Head {
	case HeadDate:
		head = p.Date
	case HeadItem:
		head = p.Parent
	case HeadPermanent:
		head = "permanent"
	}
	parts := []string{head}
	for _, n := range p.Section {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, "/")
}

// Equal reports whether two placements have the same head and the same
// section sequence element-wise.
func (p Placement) Equal(other Placement) bool {
	if p.Head != other.Head || p.Date != other.Date || p.Parent != other.Parent {
		return false
	}
	if len(p.Section) != len(other.Section) {
		return false
	}
	for i, n := range p.Section {
		if other.Section[i] != n {
			return false
		}
	}
	return true
}

// IsZero reports whether the placement is unset.
func (p Placement) IsZero() bool {
	return p.Head == ""
}
