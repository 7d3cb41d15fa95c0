package unit

import (
	"testing"
	"time"

	"github.com/xwiki-labs/chatflux/internal/server"
)

// TestNewHub verifies that NewHub returns a hub whose event channels are
// initialized and accepting.
func TestNewHub(t *testing.T) {
	hub := server.NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.GetRegisterChan() == nil {
		t.Error("Register channel is nil")
	}
	if hub.GetUnregisterChan() == nil {
		t.Error("Unregister channel is nil")
	}
}

// TestHubIgnoresNilRegistration verifies the run loop skips a nil client
// instead of panicking.
func TestHubIgnoresNilRegistration(t *testing.T) {
	hub := server.NewHub()
	go hub.Run()

	select {
	case hub.GetRegisterChan() <- nil:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Hub did not accept registration event")
	}

	if err := hub.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}

// TestHubShutdownCompletes verifies an idle hub shuts down promptly.
func TestHubShutdownCompletes(t *testing.T) {
	hub := server.NewHub()
	go hub.Run()

	if err := hub.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}
