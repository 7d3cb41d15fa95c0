// Package server coordinates the relay through the Hub type: a single event
// loop that owns the user and channel registries and serializes every
// connect, inbound frame, and disconnect.
package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// inboundFrame is one raw text frame received from a connection, queued for
// the hub loop.
type inboundFrame struct {
	client *Client
	data   []byte
}

// Hub owns the registries and runs the event loop. Handlers never execute
// concurrently: register, inbound, and unregister events are handled to
// completion one at a time, so the registries need no locking and broadcast
// order is exactly the order the triggering commands were handled.
type Hub struct {
	users    *userRegistry
	channels *channelRegistry

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a Hub with empty registries, ready to run.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		users:      newUserRegistry(),
		channels:   newChannelRegistry(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// GetRegisterChan returns the channel used to hand new connections to the hub.
func (h *Hub) GetRegisterChan() chan<- *Client {
	return h.register
}

// GetUnregisterChan returns the channel used to report closed connections.
func (h *Hub) GetUnregisterChan() chan<- *Client {
	return h.unregister
}

// Run is the hub's event loop. It should be started in its own goroutine and
// runs until Shutdown cancels it.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				log.Printf("Received nil client registration; skipping")
				continue
			}
			h.handleConnect(client)

		case f := <-h.inbound:
			h.handleFrame(f.client, f.data)

		case client := <-h.unregister:
			h.handleDisconnect(client)
		}
	}
}

// handleConnect allocates an identity for the new connection, registers it,
// announces the identity, and starts the connection's pumps. The IDENT
// envelope is queued before the pumps start, so it is the first message the
// client receives.
func (h *Hub) handleConnect(c *Client) {
	u := &User{
		ID:     newIdentity(),
		Addr:   c.addr,
		client: c,
	}
	c.user = u
	h.users.register(u)
	log.Printf("User %s connected from %s. Total users: %d", u.ID, c.addr, h.users.count())

	h.sendTo(u, []any{broadcastMarker, "IDENT", u.ID})

	if c.conn != nil {
		h.wg.Add(2)
		go func() {
			defer h.wg.Done()
			c.writePump()
		}()
		go func() {
			defer h.wg.Done()
			c.readPump()
		}()
	}
}

// handleFrame decodes one inbound frame and dispatches it. A frame that does
// not decode means the connection cannot be trusted; it is dropped without an
// error reply.
func (h *Hub) handleFrame(c *Client, data []byte) {
	if c.closed {
		// The user was dropped while this frame sat in the queue.
		return
	}

	f, err := decodeFrame(data)
	if err != nil {
		log.Printf("Protocol violation from %s: %v", c.addr, err)
		h.dropUser(c.user)
		return
	}

	u := c.user
	switch f.cmd {
	case cmdJoin:
		h.handleJoin(u, f)
	case cmdLeave:
		h.handleLeave(u, f)
	case cmdMsg:
		h.handleMsg(u, f)
	case cmdPing:
		h.handlePing(u, f)
	}
}

// handleDisconnect runs the drop path for a connection whose read pump has
// exited. A user already dropped (failed send, protocol violation) is a
// no-op here.
func (h *Hub) handleDisconnect(c *Client) {
	if c == nil || c.closed || c.user == nil {
		return
	}
	h.dropUser(c.user)
}

// dropUser is the one disconnect path: it closes the connection, removes the
// user from the user registry, and removes it from every channel it belonged
// to, deleting channels left empty and announcing the departure to channels
// that still have members. After dropUser returns no message can be routed to
// the user.
func (h *Hub) dropUser(u *User) {
	c := u.client
	if c.closed {
		return
	}
	c.closed = true

	h.closeClient(c)
	close(c.send)
	h.users.remove(u.ID)

	for _, ch := range h.channels.channelsContaining(u) {
		log.Printf("Removing user %s from channel %s", u.ID, ch.Name)
		h.channels.leave(ch, u)
		if _, ok := h.channels.resolve(ch.Name); !ok {
			log.Printf("Removed empty channel %s", ch.Name)
			continue
		}
		h.sendToChannel(ch, []any{u.ID, "LEAVE", ch.Name, "Quit: connection dropped"})
	}

	log.Printf("User %s disconnected. Total users: %d", u.ID, h.users.count())
}

// closeClient attempts a graceful close of the connection, falling back to a
// forced close. Both failures are logged and swallowed so cleanup always
// completes.
func (h *Hub) closeClient(c *Client) {
	if c.conn == nil {
		return
	}

	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		if !isExpectedCloseError(err) {
			log.Printf("Failed to disconnect %s gracefully, terminating: %v", c.addr, err)
		}
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("Failed to terminate %s: %v", c.addr, err)
		}
	}
}

// shutdownClients closes every live connection during hub shutdown.
func (h *Hub) shutdownClients() {
	log.Println("Shutting down all client connections...")

	count := 0
	for _, u := range h.users.users {
		h.closeClient(u.client)
		count++
	}

	log.Printf("Closed %d client connections", count)
}

// Shutdown cancels the event loop and waits for all connection goroutines to
// finish, or until the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Println("Initiating hub shutdown...")

	h.cancel()
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}

var hub = NewHub()

// GetHub returns the global hub instance for shutdown coordination.
func GetHub() *Hub {
	return hub
}
