// Package session resolves a job's prompt (inline text or file), spawns
// it on a remote session gateway, and polls for completion with bounded
// exponential backoff, retrieving token accounting on success.
package session
