package generation

import (
	"context"
	"time"

	"fitfusion/backend/internal/logger"
)

// ReindexNotifier tells the provider that the exercise or food library changed.
type ReindexNotifier interface {
	NotifyContentChanged(reason string)
}

// DelayedReindexNotifier fires TriggerReindex on a detached goroutine after Delay.
// Best effort: nothing is retried or awaited, and a shutdown during the delay
// drops the notification.
type DelayedReindexNotifier struct {
	Provider Provider
	Delay    time.Duration
	Timeout  time.Duration
	Log      *logger.Logger
}

func NewDelayedReindexNotifier(provider Provider, delay time.Duration, log *logger.Logger) *DelayedReindexNotifier {
	return &DelayedReindexNotifier{
		Provider: provider,
		Delay:    delay,
		Timeout:  30 * time.Second,
		Log:      log,
	}
}

func (n *DelayedReindexNotifier) NotifyContentChanged(reason string) {
	go n.run(reason)
}

func (n *DelayedReindexNotifier) run(reason string) {
	defer func() {
		if r := recover(); r != nil {
			n.Log.Error("reindex notification panicked", "reason", reason, "panic", r)
		}
	}()

	if n.Delay > 0 {
		time.Sleep(n.Delay)
	}

	ctx := context.Background()
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}

	if _, err := n.Provider.TriggerReindex(ctx, "full"); err != nil {
		n.Log.Warn("automatic reindex failed", "reason", reason, "error", err)
		return
	}
	n.Log.Info("automatic reindex triggered", "reason", reason)
}
