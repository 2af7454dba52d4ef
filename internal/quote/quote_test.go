package quote

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/specquote/internal/build"
	"github.com/Simplici0/specquote/internal/catalog"
	"github.com/Simplici0/specquote/internal/compat"
	"github.com/Simplici0/specquote/internal/pricing"
)

func defaults(t *testing.T) map[string]catalog.Item {
	t.Helper()
	byID := map[string]catalog.Item{}
	for _, item := range catalog.Defaults() {
		byID[item.ID] = item
	}
	return byID
}

func TestEvaluate_DefaultBuild(t *testing.T) {
	items := defaults(t)

	state := build.State{}
	var err error
	for _, action := range []build.Action{
		build.SelectPart{Item: items["cpu-1"]},
		build.SelectPart{Item: items["mb-2"]},
		build.SelectPart{Item: items["psu-1"]},
		build.AddAddon{Item: items["mon-1"]},
	} {
		state, err = build.Apply(state, action)
		if err != nil {
			t.Fatalf("Apply(%T): %v", action, err)
		}
	}

	q, err := Evaluate(state, pricing.Policy{CostRatePercent: decimal.NewFromInt(70)}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !q.Complete || len(q.Missing) != 0 {
		t.Fatalf("expected complete build, missing %v", q.Missing)
	}
	if q.Watts != 178 {
		t.Fatalf("watts = %d, want 178", q.Watts)
	}

	var rules []string
	for _, issue := range q.Issues {
		rules = append(rules, issue.Rule)
	}
	if diff := cmp.Diff([]string{compat.RuleSocket}, rules); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	if len(q.Unchecked) != 0 {
		t.Fatalf("default parts declare every compared attribute, got unchecked %+v", q.Unchecked)
	}

	// 4500 + 3600 + 1690 + 5890
	if !q.Pricing.Net.Equal(decimal.NewFromInt(15680)) {
		t.Fatalf("net = %s, want 15680", q.Pricing.Net)
	}
}

func TestEvaluate_EmptyStateReportsMissing(t *testing.T) {
	q, err := Evaluate(build.State{}, pricing.Policy{}, compat.NewValidator())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if q.Complete {
		t.Fatalf("empty build cannot be complete")
	}
	if diff := cmp.Diff(catalog.Mandatory, q.Missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	if q.Watts != 100 || len(q.Issues) != 0 || q.Unchecked == nil {
		t.Fatalf("unexpected evaluation of empty build: %+v", q)
	}
}

func TestEvaluate_PropagatesContractViolations(t *testing.T) {
	mon := defaults(t)["mon-1"]
	state := build.State{Addons: []build.AddonLine{{Item: mon, Quantity: mon.Stock + 1}}}

	if _, err := Evaluate(state, pricing.Policy{}, nil); err == nil {
		t.Fatalf("expected error for quantity above stock")
	}
}

func TestSnapshot_JSONAndText(t *testing.T) {
	items := defaults(t)
	sel, err := build.NewSelection(items["cpu-1"], items["mb-1"])
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	state := build.State{Selection: sel, Addons: []build.AddonLine{{Item: items["soft-1"], Quantity: 2}}}

	q, err := Evaluate(state, pricing.Policy{TaxRatePercent: decimal.NewFromInt(7)}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	snap := NewSnapshot(state, q)

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if decoded.Selection.Len() != 2 || len(decoded.Addons) != 1 {
		t.Fatalf("snapshot lost lines: %s", data)
	}
	if !decoded.Totals.Net.Equal(snap.Totals.Net) {
		t.Fatalf("net = %s, want %s", decoded.Totals.Net, snap.Totals.Net)
	}

	text := decoded.Text("Office PC")
	for _, want := range []string{"Office PC", "CPU: Ryzen 5 5600", "Windows 11 Home x2  8580.00", "Total: 17419.60"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected text to contain %q, got:\n%s", want, text)
		}
	}
}
