// Package handler exposes the instance API over HTTP: the animal profile,
// friend registry, link handshake, health probing, the monitoring session,
// and the demo item list.
package handler
