package main

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-tracker/internal/client"
	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
)

const watchRetryDelay = 3 * time.Second

// watch relays attendance:added events from the server stream to the local notifier,
// reconnecting until the returned stop func is called.
func (a *app) watch(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			err := a.api.Watch(ctx, func(ev client.StreamEvent) {
				if ev.Name == attendance.EventAttendanceAdded {
					a.notifier.Publish(attendance.EventAttendanceAdded)
				}
			})
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				a.logger.Warn("Attendance stream disconnected", "error", err)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(watchRetryDelay):
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
