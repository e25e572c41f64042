package revokedtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/accounts/internal/logging"
)

// RunPurger calls p.Purge every interval until ctx is done.
func RunPurger(ctx context.Context, p Purger, interval time.Duration, log logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := p.Purge(ctx, now)
			if err != nil {
				log.Error(ctx, "purge revoked tokens", "error", err)
				continue
			}
			if n > 0 {
				log.Debug(ctx, "purged revoked tokens", "count", n)
			}
		}
	}
}
