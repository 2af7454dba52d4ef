package build

import "errors"

var (
	ErrNotComponent    = errors.New("category is not a build component")
	ErrNotAddon        = errors.New("category is not an add-on kind")
	ErrDuplicateSlot   = errors.New("component slot already filled")
	ErrInvalidQuantity = errors.New("invalid add-on quantity")
	ErrDuplicateAddon  = errors.New("duplicate add-on line")
	ErrOutOfStock      = errors.New("item is out of stock")
	ErrAddonNotFound   = errors.New("add-on line not found")
	ErrUnknownAction   = errors.New("unknown build action")
)
