package worker

// scheduler.go
// Background goroutine that enqueues the daily backup job. Ticks every
// minute and fires once per day when the local hour matches the configured
// backup hour.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const scheduleTickInterval = time.Minute

// StartBackupScheduler launches the daily backup trigger goroutine. It
// respects the context for graceful shutdown.
func StartBackupScheduler(ctx context.Context, dispatcher *Dispatcher, backupHour int) {
	go func() {
		ticker := time.NewTicker(scheduleTickInterval)
		defer ticker.Stop()

		log.Info().Int("hour", backupHour).Msg("backup scheduler: started")

		var lastFired string
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("backup scheduler: shutting down")
				return
			case now := <-ticker.C:
				if now.Hour() != backupHour {
					continue
				}
				day := now.Format("2006-01-02")
				if day == lastFired {
					continue
				}
				lastFired = day

				if err := dispatcher.EnqueueBackup(ctx, BackupJobPayload{Reason: "scheduled"}); err != nil {
					log.Error().Err(err).Msg("backup scheduler: enqueue failed")
					// Clear the guard so the next tick within the hour retries.
					lastFired = ""
					continue
				}
				log.Info().Str("day", day).Msg("backup scheduler: daily backup enqueued")
			}
		}
	}()
}
