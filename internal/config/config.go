package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds runtime configuration loaded from environment variables.
// Business settings (tasa de cambio, IVA, moneda) do NOT live here — they
// belong to the settings table in the catalog database, because the operator
// edits them at runtime from the UI.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Data layout. FacturasDir defaults to <DATA_DIR>/facturas.
	DataDir      string `mapstructure:"DATA_DIR"`
	FacturasDir  string `mapstructure:"FACTURAS_DIR"`
	DatabaseFile string `mapstructure:"DATABASE_FILE"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	JWTRefreshHours    int    `mapstructure:"JWT_REFRESH_HOURS"`

	// Optional remote invoice service. Empty = local-only mode.
	ServerURL            string `mapstructure:"SERVER_URL"`
	RemoteTimeoutSeconds int    `mapstructure:"REMOTE_TIMEOUT_SECONDS"`

	// LogLiberaciones controls whether releasing a stock reservation (cart
	// discard, paused-invoice deletion) writes a stock-history entry. The
	// restore itself always happens; only the audit record is optional.
	LogLiberaciones bool `mapstructure:"LOG_LIBERACIONES"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("FACTURAS_DIR", "")
	viper.SetDefault("DATABASE_FILE", "")
	viper.SetDefault("JWT_SECRET", "dev-secret-cambiar-en-produccion")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 8)
	viper.SetDefault("JWT_REFRESH_HOURS", 24)
	viper.SetDefault("SERVER_URL", "")
	viper.SetDefault("REMOTE_TIMEOUT_SECONDS", 5)
	viper.SetDefault("LOG_LIBERACIONES", true)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.FacturasDir == "" {
		cfg.FacturasDir = filepath.Join(cfg.DataDir, "facturas")
	}
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = filepath.Join(cfg.DataDir, "ventapos.db")
	}
	return cfg, nil
}
