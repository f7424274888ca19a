package index

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher digests canonical alias keys into storage keys. It is injected
// rather than called as a package global so tests and alternative digests
// can swap it out.
type Hasher interface {
	Sum(data []byte) string
}

// SHA256Hasher implements Hasher with lowercase-hex SHA-256.
type SHA256Hasher struct{}

func (SHA256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
