package progress

import (
	"context"

	"github.com/trebuchet-org/govctl/internal/usecase"
)

// NopSink is used in JSON and non-interactive mode, where stdout must stay machine readable
type NopSink struct{}

// NewNopSink creates a new no-op progress sink
func NewNopSink() *NopSink {
	return &NopSink{}
}

func (n *NopSink) OnProgress(context.Context, usecase.ProgressEvent) {}
func (n *NopSink) Info(string)                                      {}
func (n *NopSink) Error(string)                                     {}

var _ usecase.ProgressSink = (*NopSink)(nil)
