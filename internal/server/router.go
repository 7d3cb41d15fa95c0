// Package server routes decoded command frames to the JOIN, LEAVE, MSG, and
// PING handlers. Handlers run on the hub loop; registry mutation and
// broadcast happen synchronously within the handling of each frame.
package server

import "encoding/json"

// handleJoin resolves or creates the target channel, replays the existing
// roster to the joiner, appends the joiner, and announces the join to the
// full membership. Joining an explicitly named channel that does not exist is
// an error; joining without a name creates a channel with a generated name.
func (h *Hub) handleJoin(u *User, f *frame) {
	if f.obj != "" {
		if _, ok := h.channels.resolve(f.obj); !ok {
			h.sendTo(u, errorReply(f.seq, errNoEntity, f.obj))
			return
		}
	}

	name := f.obj
	if name == "" {
		name = newIdentity()
	}
	ch := h.channels.getOrCreate(name)

	// Roster replay: one notice per existing member, in membership order,
	// carrying that member's id.
	for _, m := range ch.memberSnapshot() {
		h.sendTo(u, []any{broadcastMarker, m.ID, "JOIN", name})
	}
	if _, ok := h.users.lookup(u.ID); !ok {
		// The joiner failed delivery during the replay and was dropped.
		return
	}

	h.channels.join(ch, u)
	h.sendToChannel(ch, []any{u.ID, "JOIN", name})
}

// handleLeave validates in order: a target is present, the channel exists,
// and the sender is a member. On success the departure is announced to the
// channel (the leaver included) before the membership is updated; the channel
// is deleted if the leaver was its last member.
func (h *Hub) handleLeave(u *User, f *frame) {
	if f.obj == "" {
		h.sendTo(u, errorReply(f.seq, errInvalid))
		return
	}
	ch, ok := h.channels.resolve(f.obj)
	if !ok {
		h.sendTo(u, errorReply(f.seq, errNoEntity))
		return
	}
	if !ch.contains(u) {
		h.sendTo(u, errorReply(f.seq, errNotInChan))
		return
	}

	h.sendToChannel(ch, []any{u.ID, "LEAVE", ch.Name})
	h.channels.leave(ch, u)
}

// handleMsg relays the trailing payload to a channel or to a single user.
// Channels shadow users on a name collision, matching resolution order. The
// relayed envelope starts with the sender's id so recipients know its origin.
func (h *Hub) handleMsg(u *User, f *frame) {
	if ch, ok := h.channels.resolve(f.obj); ok {
		h.sendToChannel(ch, append([]any{u.ID}, rawParts(f.rest)...))
		return
	}
	if target, ok := h.users.lookup(f.obj); ok {
		h.sendTo(target, append([]any{broadcastMarker, u.ID}, rawParts(f.rest)...))
		return
	}
	h.sendTo(u, errorReply(f.seq, errNoEntity, f.obj))
}

// handlePing echoes the payload straight back to the sender with the original
// correlation token. Nothing is broadcast.
func (h *Hub) handlePing(u *User, f *frame) {
	obj := f.objRaw
	if obj == nil {
		obj = json.RawMessage("null")
	}
	h.sendTo(u, []any{f.seq, "PONG", obj})
}

// rawParts widens forwarded payload elements for envelope encoding. The
// elements pass through byte for byte.
func rawParts(rest []json.RawMessage) []any {
	parts := make([]any, len(rest))
	for i, r := range rest {
		parts[i] = r
	}
	return parts
}
