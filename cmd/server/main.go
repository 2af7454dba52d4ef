package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/specquote/internal/catalog"
	"github.com/Simplici0/specquote/internal/compat"
	"github.com/Simplici0/specquote/internal/config"
	"github.com/Simplici0/specquote/internal/db"
	"github.com/Simplici0/specquote/internal/migrations"
	"github.com/Simplici0/specquote/internal/pricing"
	"github.com/Simplici0/specquote/internal/seed"
	"github.com/Simplici0/specquote/internal/store"
)

type server struct {
	auth      *authService
	store     *store.Store
	validator *compat.Validator
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	mode, err := pricing.ParseCostMode(cfg.CostMode)
	if err != nil {
		log.Fatalf("invalid COST_MODE: %v", err)
	}

	var imported []catalog.Item
	if cfg.CatalogCSV != "" {
		if imported, err = readCatalogFile(cfg.CatalogCSV); err != nil {
			log.Fatalf("failed to read catalog: %v", err)
		}
	}

	stats, err := seed.Run(database, seed.Config{
		Policy: pricing.Policy{
			TaxRatePercent:  cfg.TaxPercent,
			DiscountAmount:  cfg.DiscountAmount,
			CostRatePercent: cfg.CostRatePercent,
			CostMode:        mode,
		},
		Import: imported,
	})
	if err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}
	log.Printf("seed complete: %d inserts, %d updates", stats.Inserts, stats.Updates)

	srv := &server{
		auth:      newAuthService(cfg.AdminEmail, cfg.AdminPassword, cfg.SessionSecret),
		store:     store.New(database),
		validator: compat.NewValidator(),
	}

	count, err := srv.store.CountItems()
	if err != nil {
		log.Fatalf("failed to count catalog items: %v", err)
	}
	log.Printf("catalog ready: %d items", count)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalogList)
		r.Post("/builds/evaluate", s.handleBuildEvaluate)
		r.Post("/builds/apply", s.handleBuildApply)
		r.Get("/quotes", s.handleQuotesList)
		r.Post("/quotes", s.handleQuoteCreate)
		r.Get("/quotes/{id}", s.handleQuoteDetail)
		r.Get("/quotes/{id}/text", s.handleQuoteText)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/policy", s.handleAdminPolicyGet)
		r.Put("/policy", s.handleAdminPolicyUpdate)
		r.Post("/catalog/import", s.handleAdminCatalogImport)
		r.Get("/catalog/export", s.handleAdminCatalogExport)
		r.Put("/catalog/{id}", s.handleAdminCatalogUpdate)
	})

	return r
}

func readCatalogFile(path string) ([]catalog.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := catalog.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}
