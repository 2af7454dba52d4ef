package catalog

import "errors"

var (
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownMemoryType = errors.New("unknown memory type")
	ErrNegativeValue     = errors.New("value must not be negative")
	ErrInvalidItem       = errors.New("invalid catalog item")
)
