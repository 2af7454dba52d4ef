// Package compat decides whether a partial build is internally consistent. An
// empty result means no known incompatibility: rules skip any pair where
// either side leaves the attribute undeclared.
package compat

import (
	"slices"

	"github.com/Simplici0/specquote/internal/build"
	"github.com/Simplici0/specquote/internal/catalog"
)

// Issue is one rule violation.
type Issue struct {
	Rule       string             `json:"rule"`
	Message    string             `json:"message"`
	Categories []catalog.Category `json:"categories"`
}

// Rule inspects a selection and reports the violations it finds.
type Rule interface {
	Check(sel build.Selection) []Issue
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(sel build.Selection) []Issue

func (f RuleFunc) Check(sel build.Selection) []Issue {
	return f(sel)
}

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		RuleFunc(SocketMatch),
		RuleFunc(MemoryTypeMatch),
		RuleFunc(GPUClearance),
		RuleFunc(PowerBudget),
	}
}

// Validator runs an ordered set of rules. It holds no state between calls
// and is safe for concurrent use.
type Validator struct {
	rules []Rule
}

// NewValidator returns a validator running rules in the given order, or the
// default rules when none are given.
func NewValidator(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Validator{rules: slices.Clone(rules)}
}

// With returns a validator that runs the receiver's rules followed by extra.
func (v *Validator) With(extra ...Rule) *Validator {
	return &Validator{rules: append(slices.Clone(v.rules), extra...)}
}

// Validate runs every rule and returns all issues found. It never stops at
// the first violation.
func (v *Validator) Validate(sel build.Selection) []Issue {
	var issues []Issue
	for _, rule := range v.rules {
		issues = append(issues, rule.Check(sel)...)
	}
	return issues
}

// Compatible reports whether selecting item would leave no issue involving
// its category. Add-on items are always compatible.
func (v *Validator) Compatible(sel build.Selection, item catalog.Item) bool {
	if item.Category.Addon() {
		return true
	}
	next, err := sel.With(item)
	if err != nil {
		return false
	}
	for _, issue := range v.Validate(next) {
		if slices.Contains(issue.Categories, item.Category) {
			return false
		}
	}
	return true
}

// Validate runs the default rules over sel.
func Validate(sel build.Selection) []Issue {
	return defaultValidator.Validate(sel)
}

var defaultValidator = NewValidator()
