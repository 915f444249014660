// Package config resolves runtime configuration from command-line
// flags with environment variable fallbacks. A .env file in the
// working directory is loaded first so club volunteers can keep their
// paths out of shell history.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultPort   = 8080
	DefaultDBPath = "leaguelotto.db"
	DefaultOutDir = "."
)

// Config holds all runtime settings
type Config struct {
	RegistrantsPath string
	LeaguesPath     string
	OutDir          string
	DBPath          string
	Seed            int64
	GlobalCap       int
	LogLevel        string
	Serve           bool
	Port            int
}

// Parse resolves configuration from args and the environment
func Parse(args []string) (Config, error) {
	// Best effort; a missing .env file is not an error.
	godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("leaguelotto", flag.ContinueOnError)

	fs.StringVar(&cfg.RegistrantsPath, "registrants", "", "Path to the registrant export CSV")
	fs.StringVar(&cfg.LeaguesPath, "leagues", "", "Path to the league catalog CSV")
	fs.StringVar(&cfg.OutDir, "out", "", "Directory for generated reports")
	fs.StringVar(&cfg.DBPath, "db", "", "Path to the results database")
	fs.Int64Var(&cfg.Seed, "seed", -1, "Random seed (same seed, same draw)")
	fs.IntVar(&cfg.GlobalCap, "cap", 0, "Global per-member league cap (0 uses the default)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.Serve, "serve", false, "Start the dashboard server after the draw")
	fs.IntVar(&cfg.Port, "port", 0, "Dashboard server port")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.RegistrantsPath == "" {
		cfg.RegistrantsPath = os.Getenv("REGISTRANTS_CSV")
	}
	if cfg.LeaguesPath == "" {
		cfg.LeaguesPath = os.Getenv("LEAGUES_CSV")
	}
	if cfg.OutDir == "" {
		cfg.OutDir = os.Getenv("OUT_DIR")
	}
	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}
	if cfg.DBPath == "" {
		cfg.DBPath = os.Getenv("DB_PATH")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}
	if cfg.Seed < 0 {
		if seedStr := os.Getenv("SEED"); seedStr != "" {
			seed, err := strconv.ParseInt(seedStr, 10, 64)
			if err != nil || seed < 0 {
				return Config{}, errors.New("invalid SEED env variable")
			}
			cfg.Seed = seed
		}
	}
	if cfg.GlobalCap == 0 {
		if capStr := os.Getenv("GLOBAL_CAP"); capStr != "" {
			n, err := strconv.Atoi(capStr)
			if err != nil || n < 1 {
				return Config{}, errors.New("invalid GLOBAL_CAP env variable")
			}
			cfg.GlobalCap = n
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	// The dashboard can run without input files (history only), but a
	// batch draw cannot.
	if !cfg.Serve {
		if cfg.RegistrantsPath == "" {
			return Config{}, errors.New("registrant export required (use -registrants or REGISTRANTS_CSV env)")
		}
		if cfg.LeaguesPath == "" {
			return Config{}, errors.New("league catalog required (use -leagues or LEAGUES_CSV env)")
		}
	}
	if (cfg.RegistrantsPath == "") != (cfg.LeaguesPath == "") {
		return Config{}, errors.New("registrant export and league catalog must be provided together")
	}

	return cfg, nil
}

// Addr returns the dashboard listen address
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
