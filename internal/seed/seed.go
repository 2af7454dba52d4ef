package seed

import (
	"database/sql"
	"fmt"

	"github.com/Simplici0/specquote/internal/catalog"
	"github.com/Simplici0/specquote/internal/pricing"
	"github.com/Simplici0/specquote/internal/store"
)

// Config contains the values required by startup seed.
type Config struct {
	Policy pricing.Policy
	// Catalog overrides the built-in default inventory when non-nil. Its items
	// are only inserted when missing.
	Catalog []catalog.Item
	// Import is merged over Catalog by id and always written, so an export
	// given at startup wins over both the defaults and earlier edits.
	Import []catalog.Item
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way. Base items already
// present are left untouched so edits made through the admin API survive
// restarts.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	s := store.New(db)
	stats := Stats{}

	if err := ensureCatalog(s, cfg, &stats); err != nil {
		return Stats{}, err
	}
	if err := ensurePolicy(s, cfg.Policy, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func ensureCatalog(s *store.Store, cfg Config, stats *Stats) error {
	base := cfg.Catalog
	if base == nil {
		base = catalog.Defaults()
	}
	merged := catalog.Merge(base, cfg.Import)

	imported := make(map[string]bool, len(cfg.Import))
	for _, item := range cfg.Import {
		imported[item.ID] = true
	}

	ids := make([]string, len(merged))
	for i, item := range merged {
		ids[i] = item.ID
	}
	existing, err := s.GetItems(ids)
	if err != nil {
		return fmt.Errorf("check catalog existence: %w", err)
	}

	pending := make([]catalog.Item, 0, len(merged))
	for _, item := range merged {
		if _, ok := existing[item.ID]; ok && !imported[item.ID] {
			continue
		}
		pending = append(pending, item)
	}
	if len(pending) == 0 {
		return nil
	}

	written, err := s.UpsertItems(pending)
	if err != nil {
		return fmt.Errorf("write seed catalog: %w", err)
	}
	stats.Inserts += written.Inserts
	stats.Updates += written.Updates
	return nil
}

func ensurePolicy(s *store.Store, policy pricing.Policy, stats *Stats) error {
	inserted, err := s.EnsurePolicy(policy)
	if err != nil {
		return fmt.Errorf("ensure pricing policy: %w", err)
	}
	if inserted {
		stats.Inserts++
	}
	return nil
}
