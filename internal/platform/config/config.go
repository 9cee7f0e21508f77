package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// CORSAllowedOrigins lists the origins allowed to call the API from a
	// browser. Comma-separated in the environment.
	CORSAllowedOrigins []string

	// Fiscal holds the default tax rates applied when neither the entity nor
	// the request overrides them. Seeded from the statutory French rates.
	Fiscal domain.FiscalSettings

	// SMTP settings for threshold alert delivery. Alerts are skipped when
	// SMTPHost is empty.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	AlertEmailTo string

	// Snapshot job scheduling (robfig/cron spec).
	SnapshotEnabled  bool
	SnapshotCronSpec string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "patrimmo-backend")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	defaults := domain.DefaultFiscalSettings()
	viper.SetDefault("FISCAL_INCOME_TAX_RATE", defaults.IncomeTaxRate.String())
	viper.SetDefault("FISCAL_SOCIAL_CHARGES_RATE", defaults.SocialChargesRate.String())
	viper.SetDefault("FISCAL_CORPORATE_REDUCED_RATE", defaults.CorporateReducedRate.String())
	viper.SetDefault("FISCAL_CORPORATE_STANDARD_RATE", defaults.CorporateStandardRate.String())
	viper.SetDefault("FISCAL_CORPORATE_REDUCED_THRESHOLD", defaults.CorporateReducedThreshold.String())
	viper.SetDefault("FISCAL_DIVIDEND_FLAT_RATE", defaults.DividendFlatRate.String())
	viper.SetDefault("FISCAL_DIVIDEND_SOCIAL_RATE", defaults.DividendSocialRate.String())

	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "alerts@patrimmo.local")
	viper.SetDefault("ALERT_EMAIL_TO", "")

	viper.SetDefault("SNAPSHOT_ENABLED", true)
	// First day of every month at 06:00.
	viper.SetDefault("SNAPSHOT_CRON_SPEC", "0 6 1 * *")

	// Environment variables override .env file values, which override defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.Fiscal = domain.FiscalSettings{
		IncomeTaxRate:             fiscalRate("FISCAL_INCOME_TAX_RATE", defaults.IncomeTaxRate),
		SocialChargesRate:         fiscalRate("FISCAL_SOCIAL_CHARGES_RATE", defaults.SocialChargesRate),
		CorporateReducedRate:      fiscalRate("FISCAL_CORPORATE_REDUCED_RATE", defaults.CorporateReducedRate),
		CorporateStandardRate:     fiscalRate("FISCAL_CORPORATE_STANDARD_RATE", defaults.CorporateStandardRate),
		CorporateReducedThreshold: fiscalRate("FISCAL_CORPORATE_REDUCED_THRESHOLD", defaults.CorporateReducedThreshold),
		DividendFlatRate:          fiscalRate("FISCAL_DIVIDEND_FLAT_RATE", defaults.DividendFlatRate),
		DividendSocialRate:        fiscalRate("FISCAL_DIVIDEND_SOCIAL_RATE", defaults.DividendSocialRate),
	}

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.SMTPFrom = viper.GetString("SMTP_FROM")
	cfg.AlertEmailTo = viper.GetString("ALERT_EMAIL_TO")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Threshold alert e-mails are disabled.")
	}

	cfg.SnapshotEnabled = viper.GetBool("SNAPSHOT_ENABLED")
	cfg.SnapshotCronSpec = viper.GetString("SNAPSHOT_CRON_SPEC")

	return cfg, nil
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// fiscalRate parses one configured rate, falling back to the statutory
// default when the value does not parse.
func fiscalRate(key string, fallback decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return rate
}
