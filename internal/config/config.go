package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Teller"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Banks struct {
		Names    []string `envconfig:"BANK_NAMES" default:"Indian Bank,Global Bank"`
		LogDir   string   `envconfig:"BANK_LOG_DIR" default:"."`
		SeedDemo bool     `envconfig:"BANK_SEED_DEMO" default:"true"`
	}

	Transfer struct {
		// CodeTTL bounds how long a generated transfer code stays valid.
		// Zero disables expiry.
		CodeTTL time.Duration `envconfig:"TRANSFER_CODE_TTL" default:"2m"`
	}

	Auth struct {
		JWTSecret  string        `envconfig:"JWT_SECRET" default:"dev-only-secret"`
		TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"30m"`
		BcryptCost int           `envconfig:"BCRYPT_COST" default:"10"`
	}
}

// LogFile derives the per-bank transaction log path, e.g.
// "Indian Bank" -> "<dir>/indian_bank_transactions.txt".
func (c *Config) LogFile(bankName string) string {
	slug := strings.ToLower(strings.ReplaceAll(bankName, " ", "_"))
	return fmt.Sprintf("%s/%s_transactions.txt", c.Banks.LogDir, slug)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if len(cfg.Banks.Names) == 0 {
		return nil, fmt.Errorf("at least one bank is required")
	}

	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cfg.Auth.BcryptCost)
	}

	return &cfg, nil
}
