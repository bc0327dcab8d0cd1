package shared_test

import (
	"testing"
	"time"

	"hotel_dashboard/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")
	t.Setenv("STATE_STORE", "")
	t.Setenv("CACHE_TTL_SECONDS", "")

	c, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr != ":8080" || c.StateStore != "memory" || c.CacheTTL != 300*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com/v2")
	t.Setenv("DASHBOARD_REFRESH_SECONDS", "30")
	t.Setenv("STATE_STORE", "redis")

	c, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.BackendBase != "https://api.example.com/v2" || c.RefreshInterval != 30*time.Second || c.StateStore != "redis" {
		t.Fatalf("unexpected config: %+v", c)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	cases := map[string][2]string{
		"bad url":         {"BACKEND_BASE_URL", "not a url"},
		"bad state store": {"STATE_STORE", "etcd"},
		"zero rps":        {"BACKEND_RPS", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := shared.Load(); err == nil {
				t.Fatalf("expected validation error for %s=%q", kv[0], kv[1])
			}
		})
	}
}
