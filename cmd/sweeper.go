package main

import (
	"context"
	"time"
)

type completer interface {
	CompleteElapsed(ctx context.Context) (int, error)
}

type sweepLogger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// runSweeper периодически завершает подтвержденные бронирования, время которых прошло.
// Работает до отмены ctx.
func runSweeper(ctx context.Context, svc completer, interval time.Duration, log sweepLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Completion sweeper stopped")
			return
		case <-ticker.C:
			n, err := svc.CompleteElapsed(ctx)
			if err != nil {
				log.Error("Completion sweep failed after %d bookings: %v", n, err)
			}
		}
	}
}
