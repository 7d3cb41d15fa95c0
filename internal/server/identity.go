// Package server generates the opaque identifiers used for users and for
// channels joined without a name.
package server

import "github.com/google/uuid"

// newIdentity returns a fresh collision-resistant identifier. The same
// generator serves user ids and auto-generated channel names, so the two
// namespaces never collide with each other either.
func newIdentity() string {
	return uuid.NewString()
}
