package integration

import (
	"testing"
	"time"

	"github.com/xwiki-labs/chatflux/internal/server"
)

// TestHubShutdown verifies a dedicated hub instance cancels its loop and
// returns within the timeout. The global hub stays untouched so the other
// integration tests keep working.
func TestHubShutdown(t *testing.T) {
	h := server.NewHub()
	go h.Run()

	if err := h.Shutdown(2 * time.Second); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}

// TestHTTPServerShutdown verifies ShutdownServer completes cleanly.
func TestHTTPServerShutdown(t *testing.T) {
	srv := server.CreateServer(":0", server.SetupRoutes())

	if err := server.ShutdownServer(srv, 2*time.Second); err != nil {
		t.Errorf("ShutdownServer() error: %v", err)
	}
}
