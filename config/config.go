package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Telegram configuration
	TelegramToken string  `envconfig:"TELEGRAM_TOKEN"`
	AdminIDs      []int64 `envconfig:"ADMIN_IDS"`

	// Database configuration
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Mining engine tuning. Payout bounds are in ETH; the draw range and hit
	// window define the per-poll event probability (window size / draw range).
	MinPayout     float64       `envconfig:"MIN_PAYOUT" default:"0.0002"`
	MaxPayout     float64       `envconfig:"MAX_PAYOUT" default:"0.0045"`
	DrawUpper     int           `envconfig:"DRAW_UPPER" default:"100000"`
	HitWindowLow  int           `envconfig:"HIT_WINDOW_LOW" default:"50000"`
	HitWindowHigh int           `envconfig:"HIT_WINDOW_HIGH" default:"100000"`
	WarmupDelay   time.Duration `envconfig:"WARMUP_DELAY" default:"2s"`
	SettleDelay   time.Duration `envconfig:"SETTLE_DELAY" default:"3s"`
	CooldownDelay time.Duration `envconfig:"COOLDOWN_DELAY" default:"30s"`
	PollDelay     time.Duration `envconfig:"POLL_DELAY" default:"2s"`

	// Withdrawal rules
	WithdrawMinEarning float64 `envconfig:"WITHDRAW_MIN_EARNING" default:"0.003"`
	WithdrawFeeRate    float64 `envconfig:"WITHDRAW_FEE_RATE" default:"0.05"`

	// Environment: "development", "production" or "test"
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, reading a .env file first
// when one is present.
func load() (*Config, error) {
	_ = godotenv.Load()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Environment != "test" {
		if c.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_TOKEN is required")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	}
	if c.MinPayout <= 0 || c.MaxPayout < c.MinPayout {
		return fmt.Errorf("invalid payout bounds: [%v, %v]", c.MinPayout, c.MaxPayout)
	}
	if c.HitWindowLow < 0 || c.HitWindowHigh <= c.HitWindowLow || c.DrawUpper < c.HitWindowLow {
		return fmt.Errorf("invalid hit window (%d, %d) for draw range [0, %d]", c.HitWindowLow, c.HitWindowHigh, c.DrawUpper)
	}
	return nil
}

// IsAdmin reports whether the given Telegram user ID is a configured operator.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
