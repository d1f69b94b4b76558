package config

import (
	"reflect"
	"testing"
	"time"
)

func TestMissingReportsAbsentKeys(t *testing.T) {
	lookup := func(string) (string, bool) { return "", false }

	got := Missing(lookup)
	if !reflect.DeepEqual(got, RequiredKeys) {
		t.Fatalf("Missing = %v, want all of %v", got, RequiredKeys)
	}
}

func TestMissingEmptyValueCountsAsAbsent(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY":     "sk-test",
		"TWILIO_ACCOUNT_SID": "AC123",
		"TWILIO_AUTH_TOKEN":  "",
		"ADMIN_TOKEN":        "tok",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	got := Missing(lookup)
	if len(got) != 1 || got[0] != "TWILIO_AUTH_TOKEN" {
		t.Fatalf("Missing = %v, want [TWILIO_AUTH_TOKEN]", got)
	}
}

func TestMissingNoneWhenAllSet(t *testing.T) {
	lookup := func(string) (string, bool) { return "present", true }

	if got := Missing(lookup); got != nil {
		t.Fatalf("Missing = %v, want nil", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "test-does-not-exist")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "nyra-realtime" {
		t.Fatalf("AppName = %q", cfg.AppName)
	}
	if cfg.Port != 8080 {
		t.Fatalf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.RealtimeURL != "wss://api.openai.com/v1/realtime" {
		t.Fatalf("RealtimeURL = %q", cfg.RealtimeURL)
	}
	wantBackoff := []time.Duration{
		100 * time.Millisecond, 200 * time.Millisecond, 500 * time.Millisecond, time.Second,
	}
	if !reflect.DeepEqual(cfg.ReconnectBackoff, wantBackoff) {
		t.Fatalf("ReconnectBackoff = %v, want %v", cfg.ReconnectBackoff, wantBackoff)
	}
}

func TestLoadBindsCredentialEnv(t *testing.T) {
	t.Setenv("CONFIG_ENV", "test-does-not-exist")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("ADMIN_TOKEN", "admin-from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-from-env" {
		t.Fatal("OPENAI_API_KEY was not bound from the environment")
	}
	if cfg.AdminToken != "admin-from-env" {
		t.Fatal("ADMIN_TOKEN was not bound from the environment")
	}
}
