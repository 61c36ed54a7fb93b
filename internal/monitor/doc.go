// Package monitor runs the recurring health-probe session: it owns the
// monitored URL set, triggers probe cycles on a fixed interval, and keeps
// the per-URL status map callers read snapshots from.
package monitor
