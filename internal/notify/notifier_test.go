package notify_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salgue441/jobrunner/internal/notify"
	"github.com/salgue441/jobrunner/pkg/logger"
)

func TestSlackNotifier_MissingTokenPathIsSilentNoop(t *testing.T) {
	n := notify.NewSlack("", logger.NewNop())
	n.NotifySuccess(context.Background(), "nightly-report", 1500, "C123")
}

func TestSlackNotifier_UnreadableTokenPathIsSilentNoop(t *testing.T) {
	n := notify.NewSlack(filepath.Join(t.TempDir(), "missing"), logger.NewNop())
	n.NotifyFailure(context.Background(), "nightly-report", 2000, "boom", "C123")
}

func TestSlackNotifier_EmptyTokenFileIsSilentNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	n := notify.NewSlack(path, logger.NewNop())
	n.NotifySuccess(context.Background(), "nightly-report", 1500, "C123")
}

func TestNoop_NeverPanics(t *testing.T) {
	var n notify.Noop
	n.NotifySuccess(context.Background(), "job", 0, "")
	n.NotifyFailure(context.Background(), "job", 0, "err", "")
}
