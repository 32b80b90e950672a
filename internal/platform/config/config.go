package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backend selection values.
const (
	StoreBackendMemory = "memory"
	StoreBackendPgsql  = "pgsql"
	StoreBackendKV     = "kvapi"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Record store
	StoreBackend string
	DatabaseURL  string
	KVBaseURL    string
	KVAPIKey     string
	KVTimeout    time.Duration

	// PIN auth
	ViewerPinHash     string
	AdminPinHash      string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Ledger view defaults
	DefaultPageLimit int
	SearchDebounce   time.Duration

	// Ambient services
	FrontendURL   string
	PosthogAPIKey string
	RateLimit     string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORE_BACKEND", StoreBackendPgsql)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("KV_BASE_URL", "")
	viper.SetDefault("KV_API_KEY", "")
	viper.SetDefault("KV_TIMEOUT", "15s")
	viper.SetDefault("VIEWER_PIN_HASH", "")
	viper.SetDefault("ADMIN_PIN_HASH", "")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "treasury-backend")
	viper.SetDefault("DEFAULT_PAGE_LIMIT", 30)
	viper.SetDefault("SEARCH_DEBOUNCE", "500ms")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.StoreBackend = viper.GetString("STORE_BACKEND")
	switch cfg.StoreBackend {
	case StoreBackendMemory, StoreBackendPgsql, StoreBackendKV:
	default:
		log.Printf("Warning: unknown STORE_BACKEND %q, defaulting to %s.\n", cfg.StoreBackend, StoreBackendPgsql)
		cfg.StoreBackend = StoreBackendPgsql
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.StoreBackend == StoreBackendPgsql && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.KVBaseURL = viper.GetString("KV_BASE_URL")
	cfg.KVAPIKey = viper.GetString("KV_API_KEY")
	if cfg.StoreBackend == StoreBackendKV && cfg.KVBaseURL == "" {
		log.Println("Warning: KV_BASE_URL environment variable not set.")
	}

	kvTimeout, err := time.ParseDuration(viper.GetString("KV_TIMEOUT"))
	if err != nil {
		kvTimeout = 15 * time.Second
		log.Printf("Warning: Invalid value for KV_TIMEOUT. Defaulting to %s.\n", kvTimeout)
	}
	cfg.KVTimeout = kvTimeout

	cfg.ViewerPinHash = viper.GetString("VIEWER_PIN_HASH")
	cfg.AdminPinHash = viper.GetString("ADMIN_PIN_HASH")
	if cfg.ViewerPinHash == "" || cfg.AdminPinHash == "" {
		log.Println("Warning: VIEWER_PIN_HASH or ADMIN_PIN_HASH not set. Sign-in will fail for the missing role.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		jwtExpiry = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION. Defaulting to %s.\n", jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.DefaultPageLimit = viper.GetInt("DEFAULT_PAGE_LIMIT")
	if cfg.DefaultPageLimit < 1 {
		cfg.DefaultPageLimit = 30
	}

	debounce, err := time.ParseDuration(viper.GetString("SEARCH_DEBOUNCE"))
	if err != nil {
		debounce = 500 * time.Millisecond
		log.Printf("Warning: Invalid value for SEARCH_DEBOUNCE. Defaulting to %s.\n", debounce)
	}
	cfg.SearchDebounce = debounce

	cfg.FrontendURL = viper.GetString("FRONTEND_URL")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
