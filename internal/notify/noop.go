package notify

import "context"

// Noop discards every notification. Used when no Slack token path is
// configured at all, so the scheduler never has to nil-check a
// Notifier.
type Noop struct{}

func (Noop) NotifySuccess(context.Context, string, int64, string)         {}
func (Noop) NotifyFailure(context.Context, string, int64, string, string) {}
