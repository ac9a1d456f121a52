package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"mostrador/internal/dto"
)

// Syncer re-pushes every dirty window. Implemented by service.DraftService.
type Syncer interface {
	PushSucias(ctx context.Context) (*dto.SyncResponse, error)
}

// StartSyncCron periodically sweeps the dirty windows that slipped past the
// per-mutation push (enqueue failures, worker crashes, Redis blips). This is
// the retry path: resubmission of the full snapshot, no per-job retry state.
func StartSyncCron(ctx context.Context, syncer Syncer, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("draft sync cron started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("draft sync cron shutting down")
				return
			case <-ticker.C:
				resp, err := syncer.PushSucias(ctx)
				if err != nil {
					log.Warn().Err(err).Msg("barrido de drafts fallido")
					continue
				}
				if resp.Empujadas > 0 || resp.Fallidas > 0 {
					log.Debug().
						Int("empujadas", resp.Empujadas).
						Int("fallidas", resp.Fallidas).
						Msg("barrido de drafts sucios")
				}
			}
		}
	}()
}
