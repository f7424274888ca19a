package item

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CanonicalKey returns the canonical form of a raw alias: Unicode NFKC
// normalization followed by case folding. Two aliases with equal canonical
// keys refer to the same name for uniqueness and lookup purposes.
func CanonicalKey(raw string) string {
	return cases.Fold().String(norm.NFKC.String(raw))
}
