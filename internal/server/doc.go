// Package server implements the ChatFlux relay: a WebSocket service that
// lets clients create and join named channels, broadcast to every channel
// member, send direct point-to-point messages, and heartbeat.
//
// The implementation is organized into specialized files for configuration,
// the wire protocol codec, the user and channel registries, the hub event
// loop, per-connection pumps, command routing, and HTTP handlers to keep the
// codebase maintainable and testable as the project grows.
package server
