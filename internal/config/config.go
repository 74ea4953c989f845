package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, parsed from the environment.
type Config struct {
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBUser     string `env:"DB_USER" envDefault:"portal"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"portal"`
	DBName     string `env:"DB_NAME" envDefault:"portal"`

	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort string `env:"REDIS_PORT" envDefault:"6379"`

	SessionSecret string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	GinMode       string `env:"GIN_MODE" envDefault:"debug"`

	// PortalBaseURL is used to build invite acceptance links.
	PortalBaseURL string `env:"PORTAL_BASE_URL" envDefault:"http://localhost:3000"`

	// Stripe price IDs for the three known tiers. Any of these may be unset,
	// in which case its slot is absent from the seat table.
	StripePriceLiteBrew       string `env:"STRIPE_PRICE_LITE_BREW"`
	StripePriceSignatureBlend string `env:"STRIPE_PRICE_SIGNATURE_BLEND"`
	StripePriceTaroCloud      string `env:"STRIPE_PRICE_TARO_CLOUD"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	EmailSender          string `env:"EMAIL_SENDER" envDefault:"hello@tarostudio.dev"`
	EmailDevDir          string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
