package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Stripe StripeConfig `yaml:"stripe"`

	Generation struct {
		MaxCardsPerRequest int `yaml:"max_cards_per_request"`
	} `yaml:"generation"`

	Extract struct {
		MaxBytes int64 `yaml:"max_bytes"`
		MaxPages int   `yaml:"max_pages"`
		MaxWords int   `yaml:"max_words"`
	} `yaml:"extract"`
}

// StripeConfig is passed to the billing service on its own so that code
// never sees unrelated settings.
type StripeConfig struct {
	SecretKey            string `yaml:"secret_key"`
	WebhookSecret        string `yaml:"webhook_secret"`
	ProPriceID           string `yaml:"pro_price_id"`
	ProAnnualPriceID     string `yaml:"pro_annual_price_id"`
	PremiumPriceID       string `yaml:"premium_price_id"`
	PremiumAnnualPriceID string `yaml:"premium_annual_price_id"`
	AppURL               string `yaml:"app_url"` // checkout/portal redirect base
}

var AppConfig *Config

// LoadConfig reads config/config.yaml, or builds the config from
// environment variables when DATABASE_URL is set (test/CI mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.ProPriceID = os.Getenv("STRIPE_PRO_PRICE_ID")
	cfg.Stripe.ProAnnualPriceID = os.Getenv("STRIPE_PRO_ANNUAL_PRICE_ID")
	cfg.Stripe.PremiumPriceID = os.Getenv("STRIPE_PREMIUM_PRICE_ID")
	cfg.Stripe.PremiumAnnualPriceID = os.Getenv("STRIPE_PREMIUM_ANNUAL_PRICE_ID")
	cfg.Stripe.AppURL = os.Getenv("APP_URL")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Generation.MaxCardsPerRequest == 0 {
		cfg.Generation.MaxCardsPerRequest = 50
	}
	if cfg.Extract.MaxBytes == 0 {
		cfg.Extract.MaxBytes = 10 * 1024 * 1024 // 10 MB
	}
	if cfg.Extract.MaxPages == 0 {
		cfg.Extract.MaxPages = 10
	}
	if cfg.Extract.MaxWords == 0 {
		cfg.Extract.MaxWords = 5000
	}
	if cfg.Stripe.AppURL == "" {
		cfg.Stripe.AppURL = "http://localhost:3000"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
