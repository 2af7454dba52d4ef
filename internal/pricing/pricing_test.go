package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/specquote/internal/build"
	"github.com/Simplici0/specquote/internal/catalog"
)

func equal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func item(t *testing.T, id string, cat catalog.Category, price int64, stock int) catalog.Item {
	t.Helper()
	it, err := catalog.NewItem(id, cat, id, decimal.NewFromInt(price), stock, catalog.Attributes{})
	if err != nil {
		t.Fatalf("NewItem(%s): %v", id, err)
	}
	return it
}

func sel(t *testing.T, items ...catalog.Item) build.Selection {
	t.Helper()
	s, err := build.NewSelection(items...)
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	return s
}

func pct(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCalculate_TaxAndDiscount(t *testing.T) {
	s := sel(t, item(t, "cpu", catalog.CPU, 6000, 1), item(t, "gpu", catalog.GPU, 4000, 1))
	addons := []build.AddonLine{{Item: item(t, "mon", catalog.Monitor, 1000, 5), Quantity: 2}}

	result, err := Calculate(s, addons, Policy{TaxRatePercent: pct(7), DiscountAmount: pct(500), CostRatePercent: pct(70)})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	equal(t, "mainTotal", result.MainTotal, "10000")
	equal(t, "addonTotal", result.AddonTotal, "2000")
	equal(t, "subTotal", result.SubTotal, "12000")
	equal(t, "tax", result.Tax, "840")
	equal(t, "discount", result.Discount, "500")
	equal(t, "net", result.Net, "12340")
	equal(t, "cost", result.Cost, "8400")
	equal(t, "profit", result.Profit, "3940")
	if result.CostMode != CostFallback {
		t.Fatalf("cost mode = %q, want fallback", result.CostMode)
	}
}

func TestCalculate_DiscountNeverExceedsTotal(t *testing.T) {
	s := sel(t, item(t, "cpu", catalog.CPU, 10000, 1))
	addons := []build.AddonLine{{Item: item(t, "soft", catalog.Software, 2000, 1), Quantity: 1}}

	result, err := Calculate(s, addons, Policy{TaxRatePercent: pct(7), DiscountAmount: pct(999999)})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	equal(t, "discount", result.Discount, "12840")
	equal(t, "net", result.Net, "0")
	equal(t, "profit", result.Profit, "0")
}

func TestCalculate_NegativePolicyValuesClampToZero(t *testing.T) {
	s := sel(t, item(t, "cpu", catalog.CPU, 1000, 1))

	result, err := Calculate(s, nil, Policy{TaxRatePercent: pct(-5), DiscountAmount: pct(-100), CostRatePercent: pct(-1)})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	equal(t, "tax", result.Tax, "0")
	equal(t, "discount", result.Discount, "0")
	equal(t, "net", result.Net, "1000")
	equal(t, "cost", result.Cost, "0")
}

func TestCalculate_ProfitNeverNegative(t *testing.T) {
	cpu := item(t, "cpu", catalog.CPU, 10000, 1).WithCost(decimal.NewFromInt(15000))

	result, err := Calculate(sel(t, cpu), nil, Policy{})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	equal(t, "net", result.Net, "10000")
	equal(t, "cost", result.Cost, "15000")
	equal(t, "profit", result.Profit, "0")
}

func TestCalculate_CostModes(t *testing.T) {
	cpu := item(t, "cpu", catalog.CPU, 5000, 1).WithCost(decimal.NewFromInt(4000))
	board := item(t, "mb", catalog.Motherboard, 3000, 1)
	mon := item(t, "mon", catalog.Monitor, 2000, 3).WithCost(decimal.NewFromInt(1500))
	s := sel(t, cpu, board)
	addons := []build.AddonLine{{Item: mon, Quantity: 2}}

	tests := []struct {
		mode     CostMode
		wantCost string
		wantMode CostMode
	}{
		{CostAuto, "7000", CostExplicit},
		{"", "7000", CostExplicit},
		{CostExplicit, "7000", CostExplicit},
		{CostFallback, "6000", CostFallback},
	}
	for _, tt := range tests {
		result, err := Calculate(s, addons, Policy{CostRatePercent: pct(50), CostMode: tt.mode})
		if err != nil {
			t.Fatalf("Calculate(%q): %v", tt.mode, err)
		}
		equal(t, "cost ("+string(tt.mode)+")", result.Cost, tt.wantCost)
		if result.CostMode != tt.wantMode {
			t.Fatalf("mode %q applied %q, want %q", tt.mode, result.CostMode, tt.wantMode)
		}
	}
}

func TestCalculate_AutoFallsBackWithoutDeclaredCosts(t *testing.T) {
	result, err := Calculate(sel(t, item(t, "cpu", catalog.CPU, 1000, 1)), nil, Policy{CostRatePercent: pct(70)})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	equal(t, "cost", result.Cost, "700")
	equal(t, "profit", result.Profit, "300")
}

func TestCalculate_EmptyBuild(t *testing.T) {
	result, err := Calculate(build.Selection{}, nil, Policy{TaxRatePercent: pct(7), DiscountAmount: pct(100)})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	equal(t, "net", result.Net, "0")
	equal(t, "discount", result.Discount, "0")
}

func TestCalculate_RejectsInvalidAddonLines(t *testing.T) {
	mon := item(t, "mon", catalog.Monitor, 100, 2)

	tests := []struct {
		name    string
		lines   []build.AddonLine
		policy  Policy
		wantErr error
	}{
		{"zero quantity", []build.AddonLine{{Item: mon, Quantity: 0}}, Policy{}, build.ErrInvalidQuantity},
		{"over stock", []build.AddonLine{{Item: mon, Quantity: 3}}, Policy{}, build.ErrInvalidQuantity},
		{"duplicate", []build.AddonLine{{Item: mon, Quantity: 1}, {Item: mon, Quantity: 1}}, Policy{}, build.ErrDuplicateAddon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Calculate(build.Selection{}, tt.lines, tt.policy); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Calculate(build.Selection{}, nil, Policy{CostMode: "guess"}); err == nil {
		t.Fatalf("expected error for unknown cost mode")
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	s := sel(t, item(t, "cpu", catalog.CPU, 4321, 1))
	addons := []build.AddonLine{{Item: item(t, "ssd", catalog.SSD, 1890, 4), Quantity: 3}}
	policy := Policy{TaxRatePercent: decimal.RequireFromString("7.5"), DiscountAmount: pct(37), CostRatePercent: pct(70)}

	first, err := Calculate(s, addons, policy)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	second, err := Calculate(s, addons, policy)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if first.Net.String() != second.Net.String() || first.Profit.String() != second.Profit.String() || first.Tax.String() != second.Tax.String() {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}
