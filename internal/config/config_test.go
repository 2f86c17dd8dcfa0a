package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "KEYWORD_DATA_FILE", "DOMAIN_DATA_FILE", "ROW_LIMIT", "RENDER", "FETCH_TIMEOUT_SEC", "ENVIRONMENT"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, "8050", cfg.Port)
	assert.Equal(t, 0, cfg.RowLimit)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "Max Learning_5Dec202517_54_48_27Nov2025_03Dec2025.csv", cfg.KeywordPath)
	assert.Equal(t, "Domain Analysis_27Nov2025_03Dec2025.csv", cfg.DomainPath)
}

func TestFromEnvRowLimit(t *testing.T) {
	t.Run("render host caps rows", func(t *testing.T) {
		t.Setenv("ROW_LIMIT", "")
		t.Setenv("RENDER", "true")
		assert.Equal(t, renderRowLimit, FromEnv().RowLimit)
	})
	t.Run("explicit limit wins", func(t *testing.T) {
		t.Setenv("ROW_LIMIT", "500")
		t.Setenv("RENDER", "true")
		assert.Equal(t, 500, FromEnv().RowLimit)
	})
	t.Run("garbage falls back", func(t *testing.T) {
		t.Setenv("ROW_LIMIT", "lots")
		t.Setenv("RENDER", "")
		assert.Equal(t, 0, FromEnv().RowLimit)
	})
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("KEYWORD_DATA_FILE", "kw.xlsx")
	t.Setenv("FETCH_TIMEOUT_SEC", "5")
	cfg := FromEnv()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "kw.xlsx", cfg.KeywordPath)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
}
