package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/govctl/internal/txflow"
)

// runTransaction drives tx to completion, reporting each state change to
// progress and the outcome to notifier.
func runTransaction(ctx context.Context, tx txflow.Transaction, progress ProgressSink, notifier Notifier) (*TxResult, error) {
	tracker := txflow.NewTracker(func(e txflow.Event) {
		progress.OnProgress(ctx, ProgressEvent{
			Stage:    "transaction",
			Message:  stageMessage(tx.Label, e),
			Spinner:  !e.To.Terminal(),
			Metadata: e,
		})
	})

	hash, err := tracker.Run(ctx, tx)
	result := &TxResult{Label: tx.Label, TxHash: hash, State: tracker.State()}
	if err != nil {
		notifier.Error(fmt.Sprintf("%s failed: %v", tx.Label, err))
		return result, err
	}
	notifier.Success(fmt.Sprintf("%s confirmed", tx.Label))
	return result, nil
}

func stageMessage(label string, e txflow.Event) string {
	switch e.To {
	case txflow.AwaitingSignature:
		return fmt.Sprintf("%s: waiting for signature", label)
	case txflow.AwaitingConfirmation:
		return fmt.Sprintf("%s: sent %s, waiting for confirmation", label, e.TxHash.Hex())
	case txflow.Confirmed:
		return fmt.Sprintf("%s: confirmed in %s", label, e.TxHash.Hex())
	default:
		return fmt.Sprintf("%s: %v", label, e.Err)
	}
}
