package catalog

import "fmt"

// Specs carries the compatibility attributes relevant to one category. Each
// category has exactly one concrete Specs type.
type Specs interface {
	fits(Category) bool
}

// ProcessorSpecs describes a CPU.
type ProcessorSpecs struct {
	Socket Attr[string]
	// TDP is the thermal design power in watts.
	TDP Attr[int]
}

// MotherboardSpecs describes a motherboard.
type MotherboardSpecs struct {
	Socket     Attr[string]
	MemoryType Attr[MemoryType]
	FormFactor Attr[string]
}

// MemorySpecs describes a RAM kit.
type MemorySpecs struct {
	MemoryType Attr[MemoryType]
}

// GraphicsSpecs describes a graphics card. Length is in millimetres.
type GraphicsSpecs struct {
	Length Attr[int]
}

// CaseSpecs describes a chassis. GPUMaxClearance is in millimetres.
type CaseSpecs struct {
	FormFactor      Attr[string]
	GPUMaxClearance Attr[int]
}

// PowerSupplySpecs describes a PSU. Capacity is the rated output in watts.
type PowerSupplySpecs struct {
	Capacity Attr[int]
}

type StorageSpecs struct{}

type CoolerSpecs struct{}

// AddonSpecs is shared by every add-on kind; add-ons take no part in
// compatibility checks.
type AddonSpecs struct{}

func (ProcessorSpecs) fits(c Category) bool   { return c == CPU }
func (MotherboardSpecs) fits(c Category) bool { return c == Motherboard }
func (MemorySpecs) fits(c Category) bool      { return c == RAM }
func (GraphicsSpecs) fits(c Category) bool    { return c == GPU }
func (CaseSpecs) fits(c Category) bool        { return c == Case }
func (PowerSupplySpecs) fits(c Category) bool { return c == PSU }
func (StorageSpecs) fits(c Category) bool     { return c == Storage }
func (CoolerSpecs) fits(c Category) bool      { return c == Cooler }
func (AddonSpecs) fits(c Category) bool       { return c.Addon() }

// Attributes is the flat, loosely-typed form of Specs used by import and
// storage. Attributes that do not apply to a category are ignored by
// SpecsFor.
type Attributes struct {
	Socket          Attr[string]     `json:"socket"`
	MemoryType      Attr[MemoryType] `json:"memoryType"`
	FormFactor      Attr[string]     `json:"formFactor"`
	GPULength       Attr[int]        `json:"gpuLength"`
	GPUMaxClearance Attr[int]        `json:"gpuMaxClearance"`
	TDP             Attr[int]        `json:"thermalDesignPower"`
	Wattage         Attr[int]        `json:"wattageCapacity"`
}

// SpecsFor builds the Specs variant for c from flat attributes.
func SpecsFor(c Category, a Attributes) (Specs, error) {
	switch c {
	case CPU:
		return ProcessorSpecs{Socket: a.Socket, TDP: a.TDP}, nil
	case Motherboard:
		return MotherboardSpecs{Socket: a.Socket, MemoryType: a.MemoryType, FormFactor: a.FormFactor}, nil
	case RAM:
		return MemorySpecs{MemoryType: a.MemoryType}, nil
	case GPU:
		return GraphicsSpecs{Length: a.GPULength}, nil
	case Case:
		return CaseSpecs{FormFactor: a.FormFactor, GPUMaxClearance: a.GPUMaxClearance}, nil
	case PSU:
		return PowerSupplySpecs{Capacity: a.Wattage}, nil
	case Storage:
		return StorageSpecs{}, nil
	case Cooler:
		return CoolerSpecs{}, nil
	}
	if c.Addon() {
		return AddonSpecs{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
}

// Flatten converts a Specs variant back to flat attributes.
func Flatten(s Specs) Attributes {
	switch v := s.(type) {
	case ProcessorSpecs:
		return Attributes{Socket: v.Socket, TDP: v.TDP}
	case MotherboardSpecs:
		return Attributes{Socket: v.Socket, MemoryType: v.MemoryType, FormFactor: v.FormFactor}
	case MemorySpecs:
		return Attributes{MemoryType: v.MemoryType}
	case GraphicsSpecs:
		return Attributes{GPULength: v.Length}
	case CaseSpecs:
		return Attributes{FormFactor: v.FormFactor, GPUMaxClearance: v.GPUMaxClearance}
	case PowerSupplySpecs:
		return Attributes{Wattage: v.Capacity}
	}
	return Attributes{}
}

// normalize validates a and returns it with the memory type in canonical form.
func (a Attributes) normalize() (Attributes, error) {
	checks := []struct {
		name string
		attr Attr[int]
	}{
		{"gpuLength", a.GPULength},
		{"gpuMaxClearance", a.GPUMaxClearance},
		{"thermalDesignPower", a.TDP},
		{"wattageCapacity", a.Wattage},
	}
	for _, c := range checks {
		if v, ok := c.attr.Get(); ok && v < 0 {
			return Attributes{}, fmt.Errorf("%w: %s=%d", ErrNegativeValue, c.name, v)
		}
	}
	if raw, ok := a.MemoryType.Get(); ok {
		mt, err := ParseMemoryType(string(raw))
		if err != nil {
			return Attributes{}, err
		}
		a.MemoryType = Declared(mt)
	}
	return a, nil
}
