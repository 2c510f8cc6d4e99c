package retry

import "time"

// NewSessionPollBackoff builds the capped exponential backoff the session
// executor uses while polling a remote gateway for completion: it starts at
// pollIntervalMs, grows by 1.2x per attempt, caps at 15s, and carries no
// jitter since poll cadence doesn't need to be desynchronized across runs.
func NewSessionPollBackoff(pollIntervalMs int64) *ExponentialBackoff {
	return NewExponentialBackoff(
		WithInitialDelay(time.Duration(pollIntervalMs)*time.Millisecond),
		WithMultiplier(1.2),
		func(b *ExponentialBackoff) { b.MaxDelay = 15 * time.Second },
		WithJitter(0),
	)
}
