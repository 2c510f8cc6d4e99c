// Package notify dispatches job completion notifications. The Slack
// implementation tolerates a missing token by logging once and
// returning without error; notification failures are never surfaced to
// the run result.
package notify
