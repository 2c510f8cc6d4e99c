// Package gateway defines the client contract for the remote session
// gateway the session executor delegates to, plus a thin HTTP
// implementation of it.
//
// The gateway itself (what spawns and runs agent sessions) is an external
// collaborator per the system's scope — this package only defines the
// interface the executor needs and a default HTTP-backed adapter.
package gateway
