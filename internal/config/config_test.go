package config

import (
	"strings"
	"testing"
)

func TestParse_FlagsWin(t *testing.T) {
	cfg, err := Parse([]string{
		"-registrants", "regs.csv",
		"-leagues", "leagues.csv",
		"-seed", "42",
		"-cap", "10",
		"-port", "9000",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.RegistrantsPath != "regs.csv" || cfg.LeaguesPath != "leagues.csv" {
		t.Errorf("unexpected paths: %+v", cfg)
	}
	if cfg.Seed != 42 || cfg.GlobalCap != 10 || cfg.Port != 9000 {
		t.Errorf("unexpected values: %+v", cfg)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]string{"-registrants", "regs.csv", "-leagues", "leagues.csv"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.DBPath != DefaultDBPath {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.OutDir != DefaultOutDir {
		t.Errorf("expected default out dir, got %q", cfg.OutDir)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected info log level, got %q", cfg.LogLevel)
	}
	if cfg.Seed != -1 {
		t.Errorf("expected unset seed, got %d", cfg.Seed)
	}
}

func TestParse_EnvFallback(t *testing.T) {
	t.Setenv("REGISTRANTS_CSV", "env-regs.csv")
	t.Setenv("LEAGUES_CSV", "env-leagues.csv")
	t.Setenv("SEED", "7")
	t.Setenv("PORT", "9999")

	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.RegistrantsPath != "env-regs.csv" || cfg.LeaguesPath != "env-leagues.csv" {
		t.Errorf("unexpected paths: %+v", cfg)
	}
	if cfg.Seed != 7 || cfg.Port != 9999 {
		t.Errorf("unexpected values: %+v", cfg)
	}
}

func TestParse_FlagBeatsEnv(t *testing.T) {
	t.Setenv("REGISTRANTS_CSV", "env-regs.csv")
	t.Setenv("LEAGUES_CSV", "env-leagues.csv")

	cfg, err := Parse([]string{"-registrants", "flag-regs.csv", "-leagues", "flag-leagues.csv"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.RegistrantsPath != "flag-regs.csv" {
		t.Errorf("expected flag value to win, got %q", cfg.RegistrantsPath)
	}
}

func TestParse_BatchModeRequiresInputs(t *testing.T) {
	_, err := Parse(nil)
	if err == nil || !strings.Contains(err.Error(), "registrant export required") {
		t.Errorf("expected missing registrants error, got %v", err)
	}

	_, err = Parse([]string{"-registrants", "regs.csv"})
	if err == nil || !strings.Contains(err.Error(), "league catalog required") {
		t.Errorf("expected missing leagues error, got %v", err)
	}
}

func TestParse_ServeModeWithoutInputs(t *testing.T) {
	cfg, err := Parse([]string{"-serve"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !cfg.Serve {
		t.Error("expected serve mode")
	}
}

func TestParse_ServeModeRejectsHalfInputs(t *testing.T) {
	_, err := Parse([]string{"-serve", "-registrants", "regs.csv"})
	if err == nil || !strings.Contains(err.Error(), "together") {
		t.Errorf("expected paired-inputs error, got %v", err)
	}
}

func TestParse_InvalidEnvValues(t *testing.T) {
	t.Setenv("REGISTRANTS_CSV", "r.csv")
	t.Setenv("LEAGUES_CSV", "l.csv")
	t.Setenv("SEED", "not-a-number")

	if _, err := Parse(nil); err == nil {
		t.Error("expected error for invalid SEED")
	}

	t.Setenv("SEED", "1")
	t.Setenv("GLOBAL_CAP", "0")
	if _, err := Parse(nil); err == nil {
		t.Error("expected error for invalid GLOBAL_CAP")
	}
}
