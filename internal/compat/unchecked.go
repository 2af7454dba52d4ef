package compat

import (
	"github.com/Simplici0/specquote/internal/build"
	"github.com/Simplici0/specquote/internal/catalog"
)

// Unchecked names a rule that could not run because a selected part leaves an
// attribute the rule needs undeclared. It is not an incompatibility.
type Unchecked struct {
	Rule       string             `json:"rule"`
	Category   catalog.Category   `json:"category"`
	Attribute  string             `json:"attribute"`
	Categories []catalog.Category `json:"categories"`
}

type requirement struct {
	rule      string
	pair      [2]catalog.Category
	attribute string
	declared  [2]func(catalog.Attributes) bool
}

var requirements = []requirement{
	{
		rule: RuleSocket, pair: [2]catalog.Category{catalog.CPU, catalog.Motherboard}, attribute: "socket",
		declared: [2]func(catalog.Attributes) bool{
			func(a catalog.Attributes) bool { return a.Socket.IsSet() },
			func(a catalog.Attributes) bool { return a.Socket.IsSet() },
		},
	},
	{
		rule: RuleMemoryType, pair: [2]catalog.Category{catalog.RAM, catalog.Motherboard}, attribute: "memoryType",
		declared: [2]func(catalog.Attributes) bool{
			func(a catalog.Attributes) bool { return a.MemoryType.IsSet() },
			func(a catalog.Attributes) bool { return a.MemoryType.IsSet() },
		},
	},
	{
		rule: RuleClearance, pair: [2]catalog.Category{catalog.GPU, catalog.Case}, attribute: "gpuLength",
		declared: [2]func(catalog.Attributes) bool{
			func(a catalog.Attributes) bool { return a.GPULength.IsSet() },
			func(a catalog.Attributes) bool { return a.GPUMaxClearance.IsSet() },
		},
	},
}

// UncheckedPairs lists, for each built-in rule whose parts are both selected,
// the parts that leave the compared attribute undeclared. Such pairs are
// treated as compatible by the rules; this makes the leniency visible.
func UncheckedPairs(sel build.Selection) []Unchecked {
	var out []Unchecked
	for _, req := range requirements {
		first, ok := sel.Get(req.pair[0])
		if !ok {
			continue
		}
		second, ok := sel.Get(req.pair[1])
		if !ok {
			continue
		}
		for i, item := range []catalog.Item{first, second} {
			if req.declared[i](item.Attributes()) {
				continue
			}
			attribute := req.attribute
			if req.rule == RuleClearance && i == 1 {
				attribute = "gpuMaxClearance"
			}
			out = append(out, Unchecked{
				Rule:       req.rule,
				Category:   item.Category,
				Attribute:  attribute,
				Categories: []catalog.Category{req.pair[0], req.pair[1]},
			})
		}
	}

	if psu, ok := sel.Get(catalog.PSU); ok && !psu.Attributes().Wattage.IsSet() {
		out = append(out, Unchecked{
			Rule:       RulePowerBudget,
			Category:   catalog.PSU,
			Attribute:  "wattageCapacity",
			Categories: []catalog.Category{catalog.PSU},
		})
	}
	return out
}
