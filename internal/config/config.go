package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds runtime configuration. Secrets (API keys) are read from the
// environment or from the config file at runtime; never committed.
type Config struct {
	// OpenRouterAPIKey is set from env OPENROUTER_API_KEY or from config file.
	OpenRouterAPIKey string `json:"open_router_api_key"`
	// Model is the OpenRouter model id (e.g. openai/gpt-4o-mini).
	Model string `json:"model"`
	// AlphaVantageAPIKey is the stock-quote provider credential (ALPHAVANTAGE_API_KEY).
	AlphaVantageAPIKey string `json:"alpha_vantage_api_key"`

	// DataDir is where config.json and parley.db live (e.g. ~/.config/parley or .parley).
	DataDir string `json:"-"`
	// DBPath is the path to parley.db.
	DBPath string `json:"-"`

	// MaxToolRounds caps tool round-trips per turn before forcing a final answer.
	MaxToolRounds int `json:"max_tool_rounds"`
	// ModelTimeout bounds each model call. Zero means the default (60s).
	ModelTimeout time.Duration `json:"-"`
}

// DefaultMaxToolRounds is used when PARLEY_MAX_TOOL_ROUNDS is unset or invalid.
const DefaultMaxToolRounds = 10

// DefaultModelTimeout bounds a single model call.
const DefaultModelTimeout = 60 * time.Second

// DefaultDataDir returns the default data directory (project-local .parley if
// present, else ~/.config/parley).
func DefaultDataDir() string {
	cwd, _ := os.Getwd()
	local := filepath.Join(cwd, ".parley")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "parley")
}

// New builds config from env and optional data dir. dataDir can be empty to use default.
func New(dataDir string) *Config {
	if dataDir == "" {
		if d := os.Getenv("PARLEY_DATA_DIR"); d != "" {
			dataDir = d
		} else {
			dataDir = DefaultDataDir()
		}
	}

	maxRounds := DefaultMaxToolRounds
	if v := os.Getenv("PARLEY_MAX_TOOL_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxRounds = n
		}
	}
	modelTimeout := DefaultModelTimeout
	if v := os.Getenv("PARLEY_MODEL_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			modelTimeout = time.Duration(n) * time.Second
		}
	}

	cfg := &Config{
		OpenRouterAPIKey:   os.Getenv("OPENROUTER_API_KEY"),
		Model:              os.Getenv("PARLEY_MODEL"),
		AlphaVantageAPIKey: os.Getenv("ALPHAVANTAGE_API_KEY"),
		DataDir:            dataDir,
		DBPath:             filepath.Join(dataDir, "parley.db"),
		MaxToolRounds:      maxRounds,
		ModelTimeout:       modelTimeout,
	}

	// Priority: Env < Config File. Keys present in config.json overwrite env
	// values; keys missing leave the env value untouched.
	configPath := filepath.Join(dataDir, "config.json")
	if data, err := os.ReadFile(configPath); err == nil {
		_ = json.Unmarshal(data, cfg)
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}

	return cfg
}
