// Package apperrors defines the coded error taxonomy shared across the
// instance: peer reachability failures, linking rejections, and registry
// conflicts. Handlers map codes to HTTP status codes.
package apperrors
