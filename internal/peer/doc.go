// Package peer fetches the self-description of remote instances. It owns
// URL canonicalization and classifies failures as unreachable vs malformed.
package peer
