package catalog

import (
	"fmt"
	"strings"
)

// Category identifies the slot a catalog item fills. The set is closed.
type Category string

const (
	CPU         Category = "CPU"
	Motherboard Category = "Motherboard"
	GPU         Category = "GPU"
	RAM         Category = "RAM"
	Storage     Category = "Storage"
	PSU         Category = "PSU"
	Case        Category = "Case"
	Cooler      Category = "Cooler"

	Monitor  Category = "Monitor"
	Software Category = "Software"
	SSD      Category = "SSD"
)

// Components lists the build slots in display order. A selection holds at most
// one item for each of them.
var Components = []Category{CPU, Motherboard, GPU, RAM, Storage, PSU, Case, Cooler}

// Addons lists the kinds sold as quantity-bearing extras.
var Addons = []Category{Monitor, Software, SSD}

// Mandatory lists the components a build needs before it is considered complete.
var Mandatory = []Category{CPU, Motherboard, PSU}

// Component reports whether c is one of the build slots.
func (c Category) Component() bool {
	for _, v := range Components {
		if v == c {
			return true
		}
	}
	return false
}

// Addon reports whether c is an add-on kind.
func (c Category) Addon() bool {
	for _, v := range Addons {
		if v == c {
			return true
		}
	}
	return false
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	return c.Component() || c.Addon()
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	for _, c := range append(append([]Category{}, Components...), Addons...) {
		if strings.EqualFold(string(c), raw) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// MemoryType is the DRAM generation declared by memory modules and motherboards.
type MemoryType string

const (
	DDR3 MemoryType = "DDR3"
	DDR4 MemoryType = "DDR4"
	DDR5 MemoryType = "DDR5"
)

var memoryTypes = []MemoryType{DDR3, DDR4, DDR5}

// ParseMemoryType resolves a memory type name case-insensitively.
func ParseMemoryType(raw string) (MemoryType, error) {
	raw = strings.TrimSpace(raw)
	for _, m := range memoryTypes {
		if strings.EqualFold(string(m), raw) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMemoryType, raw)
}
