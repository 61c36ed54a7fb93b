// Package linker drives the friend-linking handshake: a peer must be
// reachable and self-describing before anything is written to the registry.
package linker
