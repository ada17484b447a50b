package model

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnparsable    = errors.New("unparsable record")
	ErrMissingSource = errors.New("source missing")
)
