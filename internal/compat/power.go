package compat

import (
	"github.com/Simplici0/specquote/internal/build"
	"github.com/Simplici0/specquote/internal/catalog"
)

// Power draw heuristics in tenths of a watt. The figures are coarse by intent;
// the estimate only has to be stable, not accurate to rated draw.
const (
	baselineDeciWatts  = 1000
	tdpHeadroomPerWatt = 12 // TDP x 1.2
	graphicsDeciWatts  = 1800
	memoryDeciWatts    = 100
	storageDeciWatts   = 80
	coolerDeciWatts    = 50
	deciWattsPerWatt   = 10
)

// EstimateWatts returns the estimated power requirement of sel in whole
// watts, rounded up.
func EstimateWatts(sel build.Selection) int {
	total := baselineDeciWatts

	if cpu, ok := specsOf[catalog.ProcessorSpecs](sel, catalog.CPU); ok {
		if tdp, ok := cpu.TDP.Get(); ok {
			total += tdp * tdpHeadroomPerWatt
		}
	}
	if _, ok := sel.Get(catalog.GPU); ok {
		total += graphicsDeciWatts
	}
	if _, ok := sel.Get(catalog.RAM); ok {
		total += memoryDeciWatts
	}
	if _, ok := sel.Get(catalog.Storage); ok {
		total += storageDeciWatts
	}
	if _, ok := sel.Get(catalog.Cooler); ok {
		total += coolerDeciWatts
	}

	return (total + deciWattsPerWatt - 1) / deciWattsPerWatt
}

func specsOf[T catalog.Specs](sel build.Selection, c catalog.Category) (T, bool) {
	var zero T
	item, ok := sel.Get(c)
	if !ok {
		return zero, false
	}
	specs, ok := item.Specs.(T)
	return specs, ok
}
