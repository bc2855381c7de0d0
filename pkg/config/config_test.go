package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"RECONCILE_TIMEOUT", "RECONCILE_CONCURRENCY", "ANALYTICS_DAYS", "ALLOWED_EMAILS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 10*time.Second, cfg.ReconcileTimeout)
	assert.Equal(t, 4, cfg.ReconcileConcurrency)
	assert.Equal(t, 7, cfg.AnalyticsDays)
	assert.Empty(t, cfg.AllowedEmails)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RECONCILE_TIMEOUT", "2s")
	t.Setenv("RECONCILE_CONCURRENCY", "8")
	t.Setenv("ANALYTICS_DAYS", "30")
	t.Setenv("ALLOWED_EMAILS", "a@example.com, b@example.com,,")
	t.Setenv("ANALYTICS_TIMEZONE", "UTC")

	cfg := Load()

	assert.Equal(t, 2*time.Second, cfg.ReconcileTimeout)
	assert.Equal(t, 8, cfg.ReconcileConcurrency)
	assert.Equal(t, 30, cfg.AnalyticsDays)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AllowedEmails)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLocation_Fallback(t *testing.T) {
	cfg := &Config{AnalyticsTimezone: "Nowhere/Special"}
	assert.Equal(t, time.Local, cfg.Location())
}
