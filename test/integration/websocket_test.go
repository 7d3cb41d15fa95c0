package integration

import (
	"testing"
	"time"

	"github.com/xwiki-labs/chatflux/test/testhelpers"
)

// TestIdentityAnnouncement verifies that the first message on a fresh
// connection is the identity envelope, and that identities are unique across
// connections.
func TestIdentityAnnouncement(t *testing.T) {
	url, closeServer := relayURL(t)
	defer closeServer()

	conn1, err := testhelpers.ConnectWebSocket(url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = conn1.Close() }()

	conn2, err := testhelpers.ConnectWebSocket(url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = conn2.Close() }()

	id1 := testhelpers.WaitForIdent(t, conn1)
	id2 := testhelpers.WaitForIdent(t, conn2)
	if id1 == id2 {
		t.Errorf("Both connections were assigned identity %q", id1)
	}
}

// TestPingEcho verifies the PONG reply carries the original correlation token
// and payload, and that nothing is broadcast to bystanders.
func TestPingEcho(t *testing.T) {
	url, closeServer := relayURL(t)
	defer closeServer()

	conn, err := testhelpers.ConnectWebSocket(url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = conn.Close() }()
	bystander, err := testhelpers.ConnectWebSocket(url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = bystander.Close() }()

	testhelpers.WaitForIdent(t, conn)
	testhelpers.WaitForIdent(t, bystander)

	if err := testhelpers.SendFrame(conn, `[7, "PING", "abc"]`); err != nil {
		t.Fatalf("Failed to send PING: %v", err)
	}

	env := testhelpers.ReceiveEnvelope(t, conn)
	if len(env) != 3 || env[0] != float64(7) || env[1] != "PONG" || env[2] != "abc" {
		t.Errorf("Reply = %v, want [7 PONG abc]", env)
	}
	testhelpers.AssertNoEnvelope(t, bystander, 200*time.Millisecond)
}

// TestJoinNonexistentNamedChannel verifies the ENOENT error reply shape.
func TestJoinNonexistentNamedChannel(t *testing.T) {
	url, closeServer := relayURL(t)
	defer closeServer()

	conn, err := testhelpers.ConnectWebSocket(url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = conn.Close() }()
	testhelpers.WaitForIdent(t, conn)

	if err := testhelpers.SendFrame(conn, `[5, "JOIN", "no-such-channel"]`); err != nil {
		t.Fatalf("Failed to send JOIN: %v", err)
	}

	env := testhelpers.ReceiveEnvelope(t, conn)
	if len(env) != 4 || env[0] != float64(5) || env[1] != "ERROR" || env[2] != "ENOENT" || env[3] != "no-such-channel" {
		t.Errorf("Reply = %v, want [5 ERROR ENOENT no-such-channel]", env)
	}
}

// TestMalformedFrameDropsConnection verifies that unparseable input gets the
// connection closed rather than answered.
func TestMalformedFrameDropsConnection(t *testing.T) {
	url, closeServer := relayURL(t)
	defer closeServer()

	conn, err := testhelpers.ConnectWebSocket(url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = conn.Close() }()
	testhelpers.WaitForIdent(t, conn)

	if err := testhelpers.SendFrame(conn, `this is not json`); err != nil {
		t.Fatalf("Failed to send frame: %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Errorf("Expected the connection to close, received %s instead", data)
	}
}
