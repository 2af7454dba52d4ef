// Package quote combines the power estimate, the compatibility check and the
// pricing of one build snapshot.
package quote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/specquote/internal/build"
	"github.com/Simplici0/specquote/internal/catalog"
	"github.com/Simplici0/specquote/internal/compat"
	"github.com/Simplici0/specquote/internal/pricing"
)

// Quote is the full evaluation of a build.
type Quote struct {
	Watts  int            `json:"estimatedWatts"`
	Issues []compat.Issue `json:"issues"`
	// Unchecked lists selected pairs a rule could not compare because an
	// attribute is undeclared. They count as compatible.
	Unchecked []compat.Unchecked `json:"unchecked"`
	Missing   []catalog.Category `json:"missing"`
	Complete  bool               `json:"complete"`
	Pricing   pricing.Result     `json:"pricing"`
}

// Evaluate recomputes everything from state. A nil validator uses the default
// rules.
func Evaluate(state build.State, policy pricing.Policy, v *compat.Validator) (Quote, error) {
	if v == nil {
		v = compat.NewValidator()
	}

	result, err := pricing.Calculate(state.Selection, state.Addons, policy)
	if err != nil {
		return Quote{}, err
	}

	issues := v.Validate(state.Selection)
	if issues == nil {
		issues = []compat.Issue{}
	}
	unchecked := compat.UncheckedPairs(state.Selection)
	if unchecked == nil {
		unchecked = []compat.Unchecked{}
	}
	missing := state.Selection.Missing(catalog.Mandatory)
	if missing == nil {
		missing = []catalog.Category{}
	}

	return Quote{
		Watts:     compat.EstimateWatts(state.Selection),
		Issues:    issues,
		Unchecked: unchecked,
		Missing:   missing,
		Complete:  len(missing) == 0,
		Pricing:   result,
	}, nil
}

// Snapshot is the exported form of a priced build, stored with saved quotes.
type Snapshot struct {
	Selection build.Selection   `json:"selection"`
	Addons    []build.AddonLine `json:"addons"`
	Totals    pricing.Result    `json:"totals"`
	Issues    []compat.Issue    `json:"issues"`
}

// NewSnapshot captures state together with its evaluation.
func NewSnapshot(state build.State, q Quote) Snapshot {
	addons := state.Addons
	if addons == nil {
		addons = []build.AddonLine{}
	}
	return Snapshot{
		Selection: state.Selection,
		Addons:    addons,
		Totals:    q.Pricing,
		Issues:    q.Issues,
	}
}

// Text renders a plain-text summary suitable for printing or pasting.
// Amounts are printed with two decimals and no currency.
func (s Snapshot) Text(title string) string {
	var b strings.Builder

	if title != "" {
		fmt.Fprintf(&b, "%s\n\n", title)
	}

	b.WriteString("Components:\n")
	for _, item := range s.Selection.Items() {
		fmt.Fprintf(&b, "- %s: %s  %s\n", item.Category, item.Name, item.Price.StringFixed(2))
	}
	if len(s.Addons) > 0 {
		b.WriteString("Add-ons:\n")
		for _, line := range s.Addons {
			fmt.Fprintf(&b, "- %s x%d  %s\n", line.Item.Name, line.Quantity, line.Item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).StringFixed(2))
		}
	}

	t := s.Totals
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", t.SubTotal.StringFixed(2))
	fmt.Fprintf(&b, "Tax: %s\n", t.Tax.StringFixed(2))
	fmt.Fprintf(&b, "Discount: -%s\n", t.Discount.StringFixed(2))
	fmt.Fprintf(&b, "Total: %s\n", t.Net.StringFixed(2))

	if len(s.Issues) > 0 {
		b.WriteString("\nCompatibility warnings:\n")
		for _, issue := range s.Issues {
			fmt.Fprintf(&b, "- %s\n", issue.Message)
		}
	}

	return b.String()
}
