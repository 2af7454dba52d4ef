package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/specquote/internal/catalog"
	"github.com/Simplici0/specquote/internal/db"
	"github.com/Simplici0/specquote/internal/migrations"
	"github.com/Simplici0/specquote/internal/pricing"
	"github.com/Simplici0/specquote/internal/store"
)

func TestRunIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{
		Policy: pricing.Policy{
			TaxRatePercent:  decimal.NewFromInt(7),
			CostRatePercent: decimal.NewFromInt(70),
		},
	}

	wantFirst := len(catalog.Defaults()) + 1
	for i := 0; i < 10; i++ {
		stats, err := Run(database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != wantFirst {
				t.Fatalf("expected %d inserts in first run, got %d", wantFirst, stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM catalog_items`, len(catalog.Defaults()))
	assertCount(t, database, `SELECT COUNT(*) FROM pricing_policy WHERE id = 1`, 1)

	policy, err := store.New(database).GetPolicy()
	if err != nil {
		t.Fatalf("GetPolicy: %v", err)
	}
	if !policy.TaxRatePercent.Equal(decimal.NewFromInt(7)) || policy.CostMode != pricing.CostAuto {
		t.Fatalf("unexpected seeded policy: %+v", policy)
	}
}

func TestRunKeepsEditedItems(t *testing.T) {
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()
	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	s := store.New(database)
	edited := catalog.Defaults()[0]
	edited.Name = "Edited"
	if _, err := s.UpsertItems([]catalog.Item{edited}); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}

	if _, err := Run(database, Config{}); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	items, err := s.GetItems([]string{edited.ID})
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if items[edited.ID].Name != "Edited" {
		t.Fatalf("seed overwrote edited item: %q", items[edited.ID].Name)
	}
}

func TestRunMergesImportOverDefaults(t *testing.T) {
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()
	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	if _, err := Run(database, Config{}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	repriced, err := catalog.NewItem("cpu-1", catalog.CPU, "Ryzen 5 5600", decimal.NewFromInt(4200), 4,
		catalog.Attributes{Socket: catalog.Declared("AM4"), TDP: catalog.Declared(65)})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	added, err := catalog.NewItem("csv-psu", catalog.PSU, "850W Gold", decimal.NewFromInt(3290), 2,
		catalog.Attributes{Wattage: catalog.Declared(850)})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	stats, err := Run(database, Config{Import: []catalog.Item{repriced, added}})
	if err != nil {
		t.Fatalf("run with import: %v", err)
	}
	if stats.Inserts != 1 || stats.Updates != 1 {
		t.Fatalf("expected 1 insert and 1 update, got %+v", stats)
	}

	s := store.New(database)
	items, err := s.GetItems([]string{"cpu-1", "csv-psu"})
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if !items["cpu-1"].Price.Equal(decimal.NewFromInt(4200)) {
		t.Fatalf("import did not overwrite cpu-1 price: %s", items["cpu-1"].Price)
	}
	if _, ok := items["csv-psu"]; !ok {
		t.Fatal("imported item was not inserted")
	}

	count, err := s.CountItems()
	if err != nil {
		t.Fatalf("CountItems: %v", err)
	}
	if count != len(catalog.Defaults())+1 {
		t.Fatalf("expected %d catalog items, got %d", len(catalog.Defaults())+1, count)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, expected int) {
	t.Helper()

	var count int
	if err := database.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
