package compat

import (
	"fmt"

	"github.com/Simplici0/specquote/internal/build"
	"github.com/Simplici0/specquote/internal/catalog"
)

// Rule names reported in Issue.Rule.
const (
	RuleSocket      = "socket"
	RuleMemoryType  = "memory-type"
	RuleClearance   = "gpu-clearance"
	RulePowerBudget = "power-budget"
)

// SocketMatch requires the processor and motherboard sockets to agree.
func SocketMatch(sel build.Selection) []Issue {
	cpu, ok := specsOf[catalog.ProcessorSpecs](sel, catalog.CPU)
	if !ok {
		return nil
	}
	board, ok := specsOf[catalog.MotherboardSpecs](sel, catalog.Motherboard)
	if !ok {
		return nil
	}
	cpuSocket, ok := cpu.Socket.Get()
	if !ok {
		return nil
	}
	boardSocket, ok := board.Socket.Get()
	if !ok || cpuSocket == boardSocket {
		return nil
	}

	return []Issue{{
		Rule:       RuleSocket,
		Message:    fmt.Sprintf("processor socket %s incompatible with motherboard socket %s", cpuSocket, boardSocket),
		Categories: []catalog.Category{catalog.CPU, catalog.Motherboard},
	}}
}

// MemoryTypeMatch requires the memory kit and motherboard to use the same
// memory generation.
func MemoryTypeMatch(sel build.Selection) []Issue {
	ram, ok := specsOf[catalog.MemorySpecs](sel, catalog.RAM)
	if !ok {
		return nil
	}
	board, ok := specsOf[catalog.MotherboardSpecs](sel, catalog.Motherboard)
	if !ok {
		return nil
	}
	ramType, ok := ram.MemoryType.Get()
	if !ok {
		return nil
	}
	boardType, ok := board.MemoryType.Get()
	if !ok || ramType == boardType {
		return nil
	}

	return []Issue{{
		Rule:       RuleMemoryType,
		Message:    fmt.Sprintf("memory type %s incompatible with motherboard memory type %s", ramType, boardType),
		Categories: []catalog.Category{catalog.RAM, catalog.Motherboard},
	}}
}

// GPUClearance requires the graphics card to fit the case.
func GPUClearance(sel build.Selection) []Issue {
	gpu, ok := specsOf[catalog.GraphicsSpecs](sel, catalog.GPU)
	if !ok {
		return nil
	}
	chassis, ok := specsOf[catalog.CaseSpecs](sel, catalog.Case)
	if !ok {
		return nil
	}
	length, ok := gpu.Length.Get()
	if !ok {
		return nil
	}
	clearance, ok := chassis.GPUMaxClearance.Get()
	if !ok || length <= clearance {
		return nil
	}

	return []Issue{{
		Rule:       RuleClearance,
		Message:    fmt.Sprintf("graphics card length %dmm exceeds case clearance %dmm by %dmm", length, clearance, length-clearance),
		Categories: []catalog.Category{catalog.GPU, catalog.Case},
	}}
}

// PowerBudget requires the power supply capacity to cover EstimateWatts. The
// issue names the PSU and whichever of the CPU and GPU are selected, the
// parts that dominate the estimate.
func PowerBudget(sel build.Selection) []Issue {
	psu, ok := specsOf[catalog.PowerSupplySpecs](sel, catalog.PSU)
	if !ok {
		return nil
	}
	capacity, ok := psu.Capacity.Get()
	if !ok {
		return nil
	}
	need := EstimateWatts(sel)
	if capacity >= need {
		return nil
	}

	related := []catalog.Category{catalog.PSU}
	for _, c := range []catalog.Category{catalog.CPU, catalog.GPU} {
		if _, ok := sel.Get(c); ok {
			related = append(related, c)
		}
	}

	return []Issue{{
		Rule:       RulePowerBudget,
		Message:    fmt.Sprintf("power supply %dW is %dW short of the estimated %dW requirement", capacity, need-capacity, need),
		Categories: related,
	}}
}
