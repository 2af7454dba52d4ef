package config

import (
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	defaultDBPath          = "./dev.db"
	defaultPort            = "8080"
	defaultEnv             = "dev"
	defaultCostRatePercent = "70"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	Env           string
	// CatalogCSV is an optional catalog export merged into the store at startup.
	CatalogCSV string

	TaxPercent      decimal.Decimal
	DiscountAmount  decimal.Decimal
	CostRatePercent decimal.Decimal
	CostMode        string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real environment variables.
	_ = loadDotEnv(".env")

	cfg := Config{
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		Env:           strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		CatalogCSV:    os.Getenv("CATALOG_CSV"),
		CostMode:      os.Getenv("COST_MODE"),

		TaxPercent:      decimalEnv("TAX_PERCENT", "0"),
		DiscountAmount:  decimalEnv("DISCOUNT_AMOUNT", "0"),
		CostRatePercent: decimalEnv("COST_RATE_PERCENT", defaultCostRatePercent),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}

	if cfg.AdminEmail == "" {
		log.Print("warning: ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		log.Print("warning: ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}

	return cfg
}

// IsDev reports whether the service runs in development mode, where pending
// migrations are applied at startup.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

func decimalEnv(key, fallback string) decimal.Decimal {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return decimal.RequireFromString(fallback)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("warning: %s=%q is not numeric, using %s", key, raw, fallback)
		return decimal.RequireFromString(fallback)
	}
	return value
}
