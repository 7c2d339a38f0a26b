package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_JWT_SECRET": "secret",
		"DATABASE_URL":    "postgres://localhost/bancas",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.CancelWindow() != 10*time.Minute {
		t.Errorf("expected 10m grace, got %v", cfg.CancelWindow())
	}
	if cfg.RateLimit.Max != 100 || cfg.RateLimit.Window() != time.Minute {
		t.Errorf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	if cfg.Auth.Audience != "authenticated" || cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if !cfg.TrustProxy {
		t.Error("expected TRUST_PROXY to default to true")
	}
	if cfg.Geofence.Country != "DO" || cfg.Geofence.Enforce {
		t.Errorf("unexpected geofence defaults: %+v", cfg.Geofence)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUTH_JWT_SECRET":   "secret",
		"STORE_DRIVER":      "memory",
		"ANULACION_MINUTOS": "30",
		"CORS_ORIGIN":       "https://a.example,https://b.example",
		"KAFKA_BROKERS":     "k1:9092,k2:9092",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CancelWindow() != 30*time.Minute {
		t.Errorf("expected 30m grace, got %v", cfg.CancelWindow())
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected two origins, got %v", cfg.CORSOrigins)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("expected two brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":      "sqlite",
		"ANULACION_MINUTOS": "0",
	}))
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"STORE_DRIVER", "AUTH_JWT_SECRET", "ANULACION_MINUTOS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %q", want, err.Error())
		}
	}
}
