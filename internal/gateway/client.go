package gateway

import "context"

// SpawnOptions configures a new remote session.
type SpawnOptions struct {
	Label             string
	Thinking          string
	RunTimeoutSeconds int64
}

// SpawnResult identifies a spawned session.
type SpawnResult struct {
	SessionKey string
	RunID      string
}

// SessionInfo is the post-completion accounting for a session.
type SessionInfo struct {
	TotalTokens    int64
	Model          string
	TranscriptPath *string
}

// Client is the remote session gateway contract. A session is complete
// once the gateway's latest message for sessionKey has role "assistant"
// and a non-null stop reason; that predicate is the gateway's
// responsibility, not the caller's — IsSessionComplete simply reports
// the outcome.
type Client interface {
	SpawnSession(ctx context.Context, prompt string, opts SpawnOptions) (SpawnResult, error)
	IsSessionComplete(ctx context.Context, sessionKey string) (bool, error)
	GetSessionInfo(ctx context.Context, sessionKey string) (*SessionInfo, error)
}
