// Package httpserver wraps http.Server with listen-address validation and
// graceful shutdown for the instance API.
package httpserver
