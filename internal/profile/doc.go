// Package profile defines the animal identity an instance presents to its
// peers and the derivation of its stable instance id.
package profile
