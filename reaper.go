package adsmux

import (
	"context"
	"time"
)

// runReaper periodically evicts pending requests older than timeout,
// failing each with ADSERR_CLIENT_SYNCTIMEOUT through its response channel.
// This heartbeat is the only timeout mechanism: sendAndWait arms no
// per-request timer, so a request whose response never arrives is bounded
// by timeout plus at most one reaper interval.
//
// It is started as one of the goroutines supervised by the client's
// errgroup and returns when ctx is cancelled (on Close).
func (c *Client) runReaper(ctx context.Context, interval, timeout time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n := c.pending.reap(timeout)
			if n > 0 {
				if c.logger != nil {
					c.logger.Printf("adsmux: reaped %d stale pending request(s)", n)
				}
				c.metrics.reaped.Add(float64(n))
			}
		}
	}
}
