// Package testhelpers provides common utilities for testing the ChatFlux
// relay.
//
// It contains reusable helpers shared across unit and integration tests:
// creating test servers, dialing the WebSocket endpoint, and exchanging the
// relay's JSON array envelopes.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// CreateTestServer creates a test HTTP server with the given handler. The
// returned server should be closed after use.
func CreateTestServer(handler http.Handler) *httptest.Server {
	return httptest.NewServer(handler)
}

// AssertStatusCode checks if the HTTP response has the expected status code.
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status code %d, got %d", expected, resp.StatusCode)
	}
}

// AssertContentType checks if the HTTP response has the expected Content-Type
// header.
func AssertContentType(t *testing.T, resp *http.Response, expected string) {
	t.Helper()
	contentType := resp.Header.Get("Content-Type")
	if contentType != expected {
		t.Errorf("Expected content type %s, got %s", expected, contentType)
	}
}

// MakeRequest creates and executes an HTTP request, returning the response.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequest(method, url, http.NoBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// ConnectWebSocket dials the relay's WebSocket endpoint with an allowed
// origin header.
func ConnectWebSocket(url string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	headers := http.Header{}
	headers.Set("Origin", "http://localhost:8080")

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// SendFrame sends one raw text frame over the connection.
func SendFrame(conn *websocket.Conn, raw string) error {
	return conn.WriteMessage(websocket.TextMessage, []byte(raw))
}

// ReceiveEnvelope reads the next frame and decodes it as a JSON array
// envelope. It fails rather than hanging if nothing arrives within the
// timeout.
func ReceiveEnvelope(t *testing.T, conn *websocket.Conn) []any {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read envelope: %v", err)
	}

	var env []any
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("Frame %s is not a JSON array: %v", data, err)
	}
	return env
}

// AssertNoEnvelope verifies that nothing arrives on the connection within the
// given window.
func AssertNoEnvelope(t *testing.T, conn *websocket.Conn, window time.Duration) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(window)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Errorf("Unexpected envelope received: %s", data)
	}
}

// WaitForIdent reads the identity announcement that the relay sends on
// connect and returns the assigned user id.
func WaitForIdent(t *testing.T, conn *websocket.Conn) string {
	t.Helper()

	env := ReceiveEnvelope(t, conn)
	if len(env) != 3 || env[0] != float64(0) || env[1] != "IDENT" {
		t.Fatalf("First envelope = %v, want [0 IDENT id]", env)
	}
	id, ok := env[2].(string)
	if !ok || id == "" {
		t.Fatalf("Announced id = %v, want non-empty string", env[2])
	}
	return id
}

// JoinFreshChannel issues a JOIN with no channel name and returns the
// generated channel name from the join broadcast.
func JoinFreshChannel(t *testing.T, conn *websocket.Conn, id string) string {
	t.Helper()

	if err := SendFrame(conn, `[1, "JOIN", null]`); err != nil {
		t.Fatalf("Failed to send JOIN: %v", err)
	}
	env := ReceiveEnvelope(t, conn)
	if len(env) != 4 || env[0] != float64(0) || env[1] != id || env[2] != "JOIN" {
		t.Fatalf("Join broadcast = %v, want [0 %s JOIN name]", env, id)
	}
	name, ok := env[3].(string)
	if !ok || name == "" {
		t.Fatalf("Generated channel name = %v, want non-empty string", env[3])
	}
	return name
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}
