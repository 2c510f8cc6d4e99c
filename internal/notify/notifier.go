package notify

import (
	"context"
	"fmt"
)

// Notifier dispatches job outcome notifications to a channel id. Both
// methods must tolerate transport failures internally: callers never
// receive an error, only a log line, because notification failures
// must never affect a run's recorded result (spec's NotificationError
// kind).
type Notifier interface {
	NotifySuccess(ctx context.Context, jobName string, durationMs int64, channel string)
	NotifyFailure(ctx context.Context, jobName string, durationMs int64, errMsg, channel string)
}

func successMessage(jobName string, durationMs int64) string {
	return fmt.Sprintf("✅ *%s* completed (%ds)", jobName, durationMs/1000)
}

func failureMessage(jobName string, durationMs int64, errMsg string) string {
	if errMsg == "" {
		return fmt.Sprintf("⚠️ *%s* failed (%ds)", jobName, durationMs/1000)
	}

	return fmt.Sprintf("⚠️ *%s* failed (%ds): %s", jobName, durationMs/1000, errMsg)
}
