package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// renderRowLimit caps rows on constrained hosting when ROW_LIMIT is not set.
const renderRowLimit = 100000

// Default input files, as named by the reporting export.
const (
	DefaultKeywordFile = "Max Learning_5Dec202517_54_48_27Nov2025_03Dec2025.csv"
	DefaultDomainFile  = "Domain Analysis_27Nov2025_03Dec2025.csv"
)

type Config struct {
	Port         string
	KeywordPath  string
	DomainPath   string
	RowLimit     int
	FetchTimeout time.Duration
	Environment  string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	cfg := Config{
		Port:         envOr("PORT", "8050"),
		KeywordPath:  envOr("KEYWORD_DATA_FILE", DefaultKeywordFile),
		DomainPath:   envOr("DOMAIN_DATA_FILE", DefaultDomainFile),
		FetchTimeout: time.Duration(envInt("FETCH_TIMEOUT_SEC", 30)) * time.Second,
		Environment:  envOr("ENVIRONMENT", "local"),
	}
	cfg.RowLimit = envInt("ROW_LIMIT", 0)
	if cfg.RowLimit == 0 && os.Getenv("RENDER") != "" {
		cfg.RowLimit = renderRowLimit
	}
	return cfg
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
