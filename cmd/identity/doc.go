// Package identity owns the campus user records consumed by the
// authentication core.
//
// A user is keyed by their campus account ID (the string they log in
// with). The session subsystem reads users through the Store interface
// and never writes password hashes itself; registration is the only
// writer.
package identity
