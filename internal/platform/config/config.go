package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	StoreDriver   string
	DBMaxConns    int32
	AutoMigrate   bool
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	LogLevel      string
	JWTSecret     string
	JWTIssuer     string

	RedisAddress      string
	ReportCacheTTL    time.Duration // 0 disables the report cache
	ConversionLockTTL time.Duration

	RateLimit          string // ulule format, e.g. "100-M"
	CORSAllowedOrigins []string

	// Numbering
	InvoicePrefix       string
	BillPrefix          string
	SalesOrderPrefix    string
	PurchaseOrderPrefix string
	NumberingMaxRetries int

	DefaultPaymentTermsDays int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("AUTO_MIGRATE", false)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "bizledger")
	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("REPORT_CACHE_TTL", "0s")
	viper.SetDefault("CONVERSION_LOCK_TTL", "30s")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("INVOICE_PREFIX", "INV")
	viper.SetDefault("BILL_PREFIX", "BILL")
	viper.SetDefault("SALES_ORDER_PREFIX", "SO")
	viper.SetDefault("PURCHASE_ORDER_PREFIX", "PO")
	viper.SetDefault("NUMBERING_MAX_RETRIES", 5)
	viper.SetDefault("DEFAULT_PAYMENT_TERMS_DAYS", 30)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StoreDriver = strings.ToLower(viper.GetString("STORE_DRIVER"))
	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		log.Printf("Warning: unknown STORE_DRIVER '%s'. Defaulting to %s.\n", cfg.StoreDriver, StoreDriverPostgres)
		cfg.StoreDriver = StoreDriverPostgres
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.StoreDriver == StoreDriverPostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.ReportCacheTTL = parseDuration("REPORT_CACHE_TTL", 0)
	cfg.ConversionLockTTL = parseDuration("CONVERSION_LOCK_TTL", 30*time.Second)

	cfg.NumberingMaxRetries = viper.GetInt("NUMBERING_MAX_RETRIES")
	if cfg.NumberingMaxRetries < 1 {
		log.Printf("Warning: NUMBERING_MAX_RETRIES must be at least 1 (got %d). Defaulting to 5.\n", cfg.NumberingMaxRetries)
		cfg.NumberingMaxRetries = 5
	}

	cfg.DefaultPaymentTermsDays = viper.GetInt("DEFAULT_PAYMENT_TERMS_DAYS")
	if cfg.DefaultPaymentTermsDays < 0 {
		cfg.DefaultPaymentTermsDays = 30
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	cfg.AutoMigrate = viper.GetBool("AUTO_MIGRATE")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.RedisAddress = viper.GetString("REDIS_ADDRESS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.InvoicePrefix = viper.GetString("INVOICE_PREFIX")
	cfg.BillPrefix = viper.GetString("BILL_PREFIX")
	cfg.SalesOrderPrefix = viper.GetString("SALES_ORDER_PREFIX")
	cfg.PurchaseOrderPrefix = viper.GetString("PURCHASE_ORDER_PREFIX")

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}
