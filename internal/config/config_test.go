package config

import (
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PARLEY_MAX_TOOL_ROUNDS", "")
	t.Setenv("PARLEY_MODEL_TIMEOUT_SECONDS", "")

	cfg := New(t.TempDir())
	if cfg.MaxToolRounds != DefaultMaxToolRounds {
		t.Errorf("MaxToolRounds = %d, want %d", cfg.MaxToolRounds, DefaultMaxToolRounds)
	}
	if cfg.ModelTimeout != DefaultModelTimeout {
		t.Errorf("ModelTimeout = %v, want %v", cfg.ModelTimeout, DefaultModelTimeout)
	}
	if cfg.DBPath == "" {
		t.Error("DBPath not set")
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("PARLEY_MODEL", "openai/gpt-4o-mini")
	t.Setenv("ALPHAVANTAGE_API_KEY", "av-key")
	t.Setenv("PARLEY_MAX_TOOL_ROUNDS", "4")
	t.Setenv("PARLEY_MODEL_TIMEOUT_SECONDS", "30")

	cfg := New(t.TempDir())
	if cfg.OpenRouterAPIKey != "or-key" || cfg.Model != "openai/gpt-4o-mini" || cfg.AlphaVantageAPIKey != "av-key" {
		t.Errorf("env credentials not picked up: %+v", cfg)
	}
	if cfg.MaxToolRounds != 4 {
		t.Errorf("MaxToolRounds = %d, want 4", cfg.MaxToolRounds)
	}
	if cfg.ModelTimeout != 30*time.Second {
		t.Errorf("ModelTimeout = %v, want 30s", cfg.ModelTimeout)
	}
}

func TestNew_InvalidKnobsFallBack(t *testing.T) {
	t.Setenv("PARLEY_MAX_TOOL_ROUNDS", "-2")
	t.Setenv("PARLEY_MODEL_TIMEOUT_SECONDS", "zero")

	cfg := New(t.TempDir())
	if cfg.MaxToolRounds != DefaultMaxToolRounds {
		t.Errorf("MaxToolRounds = %d, want default", cfg.MaxToolRounds)
	}
	if cfg.ModelTimeout != DefaultModelTimeout {
		t.Errorf("ModelTimeout = %v, want default", cfg.ModelTimeout)
	}
}
