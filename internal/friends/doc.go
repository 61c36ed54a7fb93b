// Package friends owns the durable list of confirmed friends. The Registry
// enforces uniqueness of friend ids on top of a pluggable keyed store.
package friends
