// Package pricing turns a build selection and its add-on lines into a priced
// quotation.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/specquote/internal/build"
)

var hundred = decimal.NewFromInt(100)

// CostMode selects how the cost of goods is estimated.
type CostMode string

const (
	// CostAuto uses explicit item costs when any item declares one and the
	// fallback rate otherwise.
	CostAuto CostMode = "auto"
	// CostExplicit sums the declared item costs; items without a cost count
	// as zero.
	CostExplicit CostMode = "explicit"
	// CostFallback estimates cost as CostRatePercent of the subtotal.
	CostFallback CostMode = "fallback"
)

// ParseCostMode accepts the CostMode names; the empty string means CostAuto.
func ParseCostMode(raw string) (CostMode, error) {
	switch CostMode(raw) {
	case "", CostAuto:
		return CostAuto, nil
	case CostExplicit, CostFallback:
		return CostMode(raw), nil
	}
	return "", fmt.Errorf("unknown cost mode %q", raw)
}

// Policy holds the externally configured pricing parameters.
type Policy struct {
	TaxRatePercent  decimal.Decimal `json:"taxRatePercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	CostRatePercent decimal.Decimal `json:"costRatePercent"`
	CostMode        CostMode        `json:"costMode"`
}

// Result contains every line of the financial summary.
type Result struct {
	MainTotal  decimal.Decimal `json:"mainTotal"`
	AddonTotal decimal.Decimal `json:"addonTotal"`
	SubTotal   decimal.Decimal `json:"subTotal"`
	Tax        decimal.Decimal `json:"tax"`
	Discount   decimal.Decimal `json:"discount"`
	Net        decimal.Decimal `json:"net"`
	Cost       decimal.Decimal `json:"cost"`
	Profit     decimal.Decimal `json:"profit"`
	// CostMode is the mode actually applied; never CostAuto.
	CostMode CostMode `json:"costMode"`
}

// Calculate prices sel and addons under policy. It fails only when the add-on
// lines break their contract (quantity outside [1, stock], duplicate items,
// non add-on items) or the cost mode is unknown.
func Calculate(sel build.Selection, addons []build.AddonLine, policy Policy) (Result, error) {
	if err := build.ValidateAddons(addons); err != nil {
		return Result{}, fmt.Errorf("price build: %w", err)
	}
	mode, err := ParseCostMode(string(policy.CostMode))
	if err != nil {
		return Result{}, fmt.Errorf("price build: %w", err)
	}

	mainTotal := decimal.Zero
	explicitCost := decimal.Zero
	declared := false
	for _, item := range sel.Items() {
		mainTotal = mainTotal.Add(item.Price)
		if cost, ok := item.Cost.Get(); ok {
			explicitCost = explicitCost.Add(cost)
			declared = true
		}
	}

	addonTotal := decimal.Zero
	for _, line := range addons {
		qty := decimal.NewFromInt(int64(line.Quantity))
		addonTotal = addonTotal.Add(line.Item.Price.Mul(qty))
		if cost, ok := line.Item.Cost.Get(); ok {
			explicitCost = explicitCost.Add(cost.Mul(qty))
			declared = true
		}
	}

	subTotal := mainTotal.Add(addonTotal)
	tax := decimal.Max(policy.TaxRatePercent, decimal.Zero).Div(hundred).Mul(subTotal)
	afterTax := subTotal.Add(tax)
	discount := decimal.Min(decimal.Max(policy.DiscountAmount, decimal.Zero), afterTax)
	net := afterTax.Sub(discount)

	if mode == CostAuto {
		mode = CostFallback
		if declared {
			mode = CostExplicit
		}
	}
	cost := explicitCost
	if mode == CostFallback {
		cost = decimal.Max(policy.CostRatePercent, decimal.Zero).Div(hundred).Mul(subTotal)
	}

	profit := decimal.Max(net.Sub(cost), decimal.Zero)

	return Result{
		MainTotal:  mainTotal,
		AddonTotal: addonTotal,
		SubTotal:   subTotal,
		Tax:        tax,
		Discount:   discount,
		Net:        net,
		Cost:       cost,
		Profit:     profit,
		CostMode:   mode,
	}, nil
}
