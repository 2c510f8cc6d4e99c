package notify

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/slack-go/slack"

	"github.com/salgue441/jobrunner/pkg/logger"
)

// SlackNotifier posts completion messages to Slack channels. It reads
// the bot token from tokenPath lazily, once, the first time a
// notification is attempted.
type SlackNotifier struct {
	tokenPath string
	logger    logger.Logger

	once   sync.Once
	client *slack.Client

	warnMu sync.Mutex
	warned bool
}

// NewSlack creates a SlackNotifier that reads its token from tokenPath.
// An empty tokenPath is valid: every dispatch becomes a no-op, and a
// warning is logged on the first one only.
func NewSlack(tokenPath string, log logger.Logger) *SlackNotifier {
	return &SlackNotifier{tokenPath: tokenPath, logger: log.Named("notify-slack")}
}

func (n *SlackNotifier) resolve() *slack.Client {
	n.once.Do(func() {
		if n.tokenPath == "" {
			return
		}

		data, err := os.ReadFile(n.tokenPath)
		if err != nil {
			n.logger.Warn("slack token unreadable, notifications disabled", "path", n.tokenPath, "error", err)
			return
		}

		token := strings.TrimSpace(string(data))
		if token == "" {
			n.logger.Warn("slack token file is empty, notifications disabled", "path", n.tokenPath)
			return
		}

		n.client = slack.New(token)
	})

	return n.client
}

func (n *SlackNotifier) NotifySuccess(ctx context.Context, jobName string, durationMs int64, channel string) {
	n.send(ctx, channel, successMessage(jobName, durationMs))
}

func (n *SlackNotifier) NotifyFailure(ctx context.Context, jobName string, durationMs int64, errMsg, channel string) {
	n.send(ctx, channel, failureMessage(jobName, durationMs, errMsg))
}

func (n *SlackNotifier) send(ctx context.Context, channel, text string) {
	client := n.resolve()
	if client == nil {
		n.warnMu.Lock()
		if !n.warned {
			n.logger.Warn("no slack token configured, dropping notification")
			n.warned = true
		}
		n.warnMu.Unlock()

		return
	}

	_, _, err := client.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	if err != nil {
		n.logger.Warn("failed to post slack notification", "channel", channel, "error", err)
	}
}
