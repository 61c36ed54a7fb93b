// Package probe issues concurrent liveness checks against remote instances
// and classifies each as reachable or unreachable. Individual failures are
// recorded per URL, never raised.
package probe
