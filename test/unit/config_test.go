// Package unit contains unit tests for individual components of the ChatFlux
// relay.
//
// These tests exercise the exported configuration and server construction
// surface in isolation, without running the hub or opening connections.
package unit

import (
	"testing"

	"github.com/xwiki-labs/chatflux/internal/server"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := server.NewConfig()

	if cfg.Port != ":8080" {
		t.Errorf("Port = %q, want :8080", cfg.Port)
	}
	if cfg.MaxMessageSize <= 0 {
		t.Errorf("MaxMessageSize = %d, want positive", cfg.MaxMessageSize)
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Error("AllowedOrigins is empty, want at least the localhost default")
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9090")
	t.Setenv("ALLOWED_ORIGINS", "https://chat.example.com, https://admin.example.com")
	t.Setenv("MAX_MESSAGE_SIZE", "1024")

	cfg := server.NewConfigFromEnv()

	if cfg.Port != ":9090" {
		t.Errorf("Port = %q, want :9090", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins = %v, want 2 entries", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("AllowedOrigins[1] = %q, want trimmed origin", cfg.AllowedOrigins[1])
	}
	if cfg.MaxMessageSize != 1024 {
		t.Errorf("MaxMessageSize = %d, want 1024", cfg.MaxMessageSize)
	}
}

func TestNewConfigFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("MAX_MESSAGE_SIZE", "not-a-number")

	cfg := server.NewConfigFromEnv()
	def := server.NewConfig()

	if cfg.MaxMessageSize != def.MaxMessageSize {
		t.Errorf("MaxMessageSize = %d, want default %d", cfg.MaxMessageSize, def.MaxMessageSize)
	}
}

func TestSetConfigNilResetsDefaults(t *testing.T) {
	server.SetConfig(&server.Config{Port: ":7777"})
	server.SetConfig(nil)

	// The sanitized active config is not directly observable here; this
	// guards against SetConfig(nil) panicking or wedging the config lock.
	server.SetConfig(server.NewConfig())
}
