// Package server defines the wire protocol: order-significant JSON arrays
// carried as WebSocket text frames.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
)

// broadcastMarker is the literal prepended to server-originated messages that
// are not a direct reply to a client request, so clients can tell event
// traffic from reply traffic.
const broadcastMarker = 0

// Error codes carried in ERROR replies.
const (
	errNoEntity  = "ENOENT"
	errInvalid   = "EINVAL"
	errNotInChan = "NOT_IN_CHAN"
)

// commandKind enumerates the closed set of client commands. Decoding maps the
// wire tag onto this set exactly once; everything downstream switches on the
// kind, so an unhandled command cannot slip through as a silent no-op.
type commandKind int

const (
	cmdJoin commandKind = iota
	cmdLeave
	cmdMsg
	cmdPing
)

func (k commandKind) String() string {
	switch k {
	case cmdJoin:
		return "JOIN"
	case cmdLeave:
		return "LEAVE"
	case cmdMsg:
		return "MSG"
	case cmdPing:
		return "PING"
	}
	return fmt.Sprintf("commandKind(%d)", int(k))
}

// frame is one decoded client envelope [seq, cmd, obj, ...rest].
type frame struct {
	seq    json.RawMessage   // correlation token, echoed verbatim in direct replies
	cmd    commandKind
	obj    string            // decoded target; empty when absent or null
	objRaw json.RawMessage   // target element as received, for the PONG echo
	rest   []json.RawMessage // trailing payload, forwarded untouched by MSG
}

// errMalformedFrame marks input that does not decode to the envelope shape.
// The connection that produced it cannot be trusted and is dropped.
var errMalformedFrame = errors.New("malformed frame")

// decodeFrame parses a raw text frame into a command envelope. Anything that
// is not a JSON array of at least [seq, cmd], with cmd one of the four known
// tags and obj (when present) a string or null, is a protocol violation.
func decodeFrame(data []byte) (*frame, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedFrame, err)
	}
	if len(elems) < 2 {
		return nil, fmt.Errorf("%w: %d elements", errMalformedFrame, len(elems))
	}

	var tag string
	if err := json.Unmarshal(elems[1], &tag); err != nil {
		return nil, fmt.Errorf("%w: non-string command", errMalformedFrame)
	}

	f := &frame{seq: elems[0]}
	switch tag {
	case "JOIN":
		f.cmd = cmdJoin
	case "LEAVE":
		f.cmd = cmdLeave
	case "MSG":
		f.cmd = cmdMsg
	case "PING":
		f.cmd = cmdPing
	default:
		return nil, fmt.Errorf("%w: unknown command %q", errMalformedFrame, tag)
	}

	if len(elems) > 2 {
		f.objRaw = elems[2]
		if !isJSONNull(elems[2]) {
			if err := json.Unmarshal(elems[2], &f.obj); err != nil {
				return nil, fmt.Errorf("%w: target is neither string nor null", errMalformedFrame)
			}
		}
		f.rest = elems[3:]
	}

	return f, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// encodeEnvelope marshals an outbound message from its ordered parts. Parts
// that are json.RawMessage (echoed seq values, forwarded MSG payload) pass
// through byte for byte.
func encodeEnvelope(parts ...any) ([]byte, error) {
	return json.Marshal(parts)
}

// errorReply builds a [seq, "ERROR", code, obj...] direct reply. The target
// is included only when the caller has one to report.
func errorReply(seq json.RawMessage, code string, obj ...string) []any {
	reply := []any{seq, "ERROR", code}
	for _, o := range obj {
		reply = append(reply, o)
	}
	return reply
}
