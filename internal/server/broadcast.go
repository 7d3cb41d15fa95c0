// Package server implements broadcast fan-out: delivery of one envelope to a
// single user or to every member of a channel.
package server

import "log"

// sendTo serializes the envelope and queues it on the user's connection. A
// delivery failure is never surfaced to the caller of the triggering command;
// it is treated as the recipient having disconnected, and the recipient is
// dropped. Reports whether the envelope was queued.
func (h *Hub) sendTo(u *User, env []any) bool {
	if _, ok := h.users.lookup(u.ID); !ok {
		// Dropped earlier in this fan-out; route nothing more to it.
		return false
	}

	payload, err := encodeEnvelope(env...)
	if err != nil {
		log.Printf("Error encoding envelope for %s: %v", u.ID, err)
		return false
	}

	select {
	case u.client.send <- payload:
		log.Printf("Sent to %s: %s", u.ID, payload)
		return true
	default:
		log.Printf("Delivery to %s failed (send buffer full); dropping user", u.ID)
		h.dropUser(u)
		return false
	}
}

// sendToChannel prepends the broadcast marker and delivers the envelope to
// every member in membership order. Fan-out is sequential and per-member
// failures are isolated: a member that fails delivery is dropped without
// blocking or aborting delivery to the rest.
func (h *Hub) sendToChannel(ch *Channel, env []any) {
	env = append([]any{broadcastMarker}, env...)
	for _, m := range ch.memberSnapshot() {
		h.sendTo(m, env)
	}
}
