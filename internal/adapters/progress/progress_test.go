package progress

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/govctl/internal/notify"
	"github.com/trebuchet-org/govctl/internal/txflow"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

func init() {
	color.NoColor = true
}

func TestSpinnerProgressReporter_SettledEvents(t *testing.T) {
	var buf bytes.Buffer
	r := NewSpinnerProgressReporterTo(&buf)
	ctx := context.Background()

	// The spinner only animates on a terminal; a buffer just records settled lines.
	r.OnProgress(ctx, usecase.ProgressEvent{Message: "vote: waiting for signature", Spinner: true})
	assert.NotContains(t, buf.String(), "waiting for signature")

	r.OnProgress(ctx, usecase.ProgressEvent{
		Message:  "vote: confirmed",
		Metadata: txflow.Event{From: txflow.AwaitingConfirmation, To: txflow.Confirmed},
	})
	assert.Contains(t, buf.String(), "✓ vote: confirmed")

	r.OnProgress(ctx, usecase.ProgressEvent{
		Message:  "claim: reverted",
		Metadata: txflow.Event{From: txflow.AwaitingConfirmation, To: txflow.Failed},
	})
	assert.Contains(t, buf.String(), "✗ claim: reverted")
}

func TestSpinnerProgressReporter_Messages(t *testing.T) {
	var buf bytes.Buffer
	r := NewSpinnerProgressReporterTo(&buf)

	r.Info("hello")
	r.Error("boom")
	assert.Contains(t, buf.String(), "hello\n")
	assert.Contains(t, buf.String(), "boom\n")
}

func TestToastPrinter_PrintsEachToastOnce(t *testing.T) {
	var buf bytes.Buffer
	store := notify.NewStore(time.Hour)
	stop := NewToastPrinter(&buf).Attach(store)

	store.Success("vote confirmed")
	store.Error("claim failed")
	stop()
	store.Info("not printed")

	assert.Equal(t, "vote confirmed\nclaim failed\n", buf.String())
}
