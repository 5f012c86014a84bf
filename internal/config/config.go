package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Filter string

const (
	FilterAll  Filter = "all"
	FilterOpen Filter = "open"
	FilterDone Filter = "done"
)

func ParseFilter(raw string) (Filter, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "all", "":
		return FilterAll, true
	case "open", "pending", "todo":
		return FilterOpen, true
	case "done", "completed":
		return FilterDone, true
	default:
		return FilterAll, false
	}
}

type RuntimeConfig struct {
	DBPath        string
	UIStatePath   string
	StoreTimeout  time.Duration
	DefaultFilter Filter
	Log           LogConfig
}

type LogConfig struct {
	Level    string
	Encoding string
	// Path receives log output; "-" discards it.
	Path string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:        "data/todo.db",
		UIStatePath:   ".todo_state.yaml",
		StoreTimeout:  5 * time.Second,
		DefaultFilter: FilterAll,
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
			Path:     "data/todo.log",
		},
	}
}

// Load reads envFile (missing files are ignored) and applies environment
// overrides on top of the defaults. Variables already set in the process
// environment win over the file.
func Load(envFile string) RuntimeConfig {
	if strings.TrimSpace(envFile) != "" {
		_ = godotenv.Load(envFile)
	}
	return RuntimeConfigFromEnv(DefaultRuntimeConfig())
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TODO_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TODO_UI_STATE_PATH"); ok {
		cfg.UIStatePath = v
	}
	if v, ok := getEnvDuration("TODO_STORE_TIMEOUT"); ok && v > 0 {
		cfg.StoreTimeout = v
	}
	if v, ok := getEnvString("TODO_DEFAULT_FILTER"); ok {
		if f, known := ParseFilter(v); known {
			cfg.DefaultFilter = f
		}
	}
	if v, ok := getEnvString("TODO_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODO_LOG_ENCODING"); ok {
		cfg.Log.Encoding = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODO_LOG_PATH"); ok {
		cfg.Log.Path = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// getEnvDuration accepts Go duration strings or a bare number of seconds.
func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, true
	}
	if secs, ok := getEnvInt(name); ok {
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}
