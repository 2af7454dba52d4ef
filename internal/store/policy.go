package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/specquote/internal/pricing"
)

// EnsurePolicy inserts the policy singleton with defaults when it is missing.
// It reports whether a row was inserted.
func (s *Store) EnsurePolicy(defaults pricing.Policy) (bool, error) {
	mode, err := pricing.ParseCostMode(string(defaults.CostMode))
	if err != nil {
		return false, err
	}

	result, err := s.db.Exec(`
		INSERT INTO pricing_policy (id, tax_percent, discount_amount, cost_rate_percent, cost_mode)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, defaults.TaxRatePercent.String(), defaults.DiscountAmount.String(), defaults.CostRatePercent.String(), string(mode))
	if err != nil {
		return false, fmt.Errorf("insert default pricing_policy: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert default pricing_policy: %w", err)
	}
	return affected > 0, nil
}

// GetPolicy returns the stored pricing policy.
func (s *Store) GetPolicy() (pricing.Policy, error) {
	var tax, discount, costRate, mode string
	err := s.db.QueryRow(`
		SELECT tax_percent, discount_amount, cost_rate_percent, cost_mode
		FROM pricing_policy
		WHERE id = 1
	`).Scan(&tax, &discount, &costRate, &mode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.Policy{}, fmt.Errorf("pricing_policy singleton: %w", ErrNotFound)
		}
		return pricing.Policy{}, fmt.Errorf("query pricing_policy: %w", err)
	}

	var p pricing.Policy
	if p.TaxRatePercent, err = decimal.NewFromString(tax); err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing_policy tax_percent: %w", err)
	}
	if p.DiscountAmount, err = decimal.NewFromString(discount); err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing_policy discount_amount: %w", err)
	}
	if p.CostRatePercent, err = decimal.NewFromString(costRate); err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing_policy cost_rate_percent: %w", err)
	}
	if p.CostMode, err = pricing.ParseCostMode(mode); err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing_policy cost_mode: %w", err)
	}
	return p, nil
}

// UpdatePolicy overwrites the policy singleton.
func (s *Store) UpdatePolicy(p pricing.Policy) error {
	mode, err := pricing.ParseCostMode(string(p.CostMode))
	if err != nil {
		return err
	}

	result, err := s.db.Exec(`
		UPDATE pricing_policy
		SET
			tax_percent = ?,
			discount_amount = ?,
			cost_rate_percent = ?,
			cost_mode = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, p.TaxRatePercent.String(), p.DiscountAmount.String(), p.CostRatePercent.String(), string(mode))
	if err != nil {
		return fmt.Errorf("update pricing_policy: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pricing_policy: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("pricing_policy singleton: %w", ErrNotFound)
	}
	return nil
}
