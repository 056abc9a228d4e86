// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run ticks, then waits cfg.Wait or until ctx is done.
// One goroutine. No overlap. An in-flight tick always completes.
func (p *Poller) Run(ctx context.Context) {
	timer := time.NewTimer(p.cfg.Wait)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		p.Tick()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(p.cfg.Wait)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}
