// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartStreakExpiryScheduler runs the streak expiry sweep hourly until ctx is
// cancelled. Users who skipped a whole day get their summary streak reset to 0.
func (s *StreakService) StartStreakExpiryScheduler(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if err := s.ExpireStale(); err != nil {
				log.Printf("[Scheduler] Streak expiry failed: %v", err)
			}
		}),
	); err != nil {
		return err
	}

	sched.Start()
	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			log.Printf("[Scheduler] Shutdown failed: %v", err)
		} else {
			log.Println("🛑 Streak expiry scheduler stopped")
		}
	}()
	return nil
}
