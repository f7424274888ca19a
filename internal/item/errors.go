package item

import "errors"

var (
	ErrMalformedHead = errors.New("malformed placement head")
	ErrBadSection    = errors.New("placement section must be a positive integer")
	ErrBadRank       = errors.New("invalid rank")
)
