package settings

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env carries the process-level knobs the CLI reads from the environment:
// where the settings file and journal database live and which account mode
// the ledger is filtered to. Values from a local .env file are loaded first
// when one exists.
type Env struct {
	SettingsFile string `envconfig:"DISCIPLINE_SETTINGS" default:"discipline.yaml"`
	JournalDB    string `envconfig:"DISCIPLINE_DB" default:"discipline.db"`
	AccountMode  string `envconfig:"DISCIPLINE_MODE" default:"live"`
}

// LoadEnv reads the environment (and an optional .env file) into Env.
func LoadEnv() (*Env, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	switch e.AccountMode {
	case "simulation", "demo", "live":
	default:
		return nil, fmt.Errorf("DISCIPLINE_MODE must be 'simulation', 'demo' or 'live'")
	}
	return &e, nil
}
