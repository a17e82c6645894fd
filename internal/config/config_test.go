package config

import (
	"flag"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %s, want 127.0.0.1", cfg.Host)
	}
	if cfg.Port != 8420 {
		t.Errorf("Port = %d, want 8420", cfg.Port)
	}
	if cfg.StopwordsURL == "" {
		t.Error("StopwordsURL default missing")
	}
	if cfg.WatchDir != "" {
		t.Errorf("WatchDir = %q, want disabled by default", cfg.WatchDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHATLENS_HOST", "0.0.0.0")
	t.Setenv("CHATLENS_PORT", "9000")
	t.Setenv("CHATLENS_WATCH_DIR", "/tmp/exports")

	cfg := Load()
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %s, want 0.0.0.0", cfg.Host)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.WatchDir != "/tmp/exports" {
		t.Errorf("WatchDir = %s, want /tmp/exports", cfg.WatchDir)
	}
}

func TestLoadIgnoresMalformedPort(t *testing.T) {
	t.Setenv("CHATLENS_PORT", "not-a-number")
	cfg := Load()
	if cfg.Port != 8420 {
		t.Errorf("Port = %d, want default 8420", cfg.Port)
	}
}

func TestRegisterFlagsOverride(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(&cfg, fs)

	if err := fs.Parse([]string{"-port", "9999", "-host", "::1"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	if cfg.Port != 9999 || cfg.Host != "::1" {
		t.Errorf("flags not applied: %+v", cfg)
	}
}
