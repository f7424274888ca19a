package blobstore

import "errors"

var (
	// ErrNotFound is returned when a blob does not exist.
	ErrNotFound = errors.New("blob not found")

	// ErrNotEmpty is returned when removing a non-empty directory
	// without recursive=true.
	ErrNotEmpty = errors.New("directory not empty")
)
