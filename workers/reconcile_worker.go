// workers/reconcile_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"course-progress-system/services"

	"gorm.io/gorm"
)

// SummaryReconcileWorker sweeps for users whose summary row is missing or
// older than their newest course record — the leftovers of a call chain that
// was cancelled between the record write and the recompute — and re-derives
// their summary from current records.
type SummaryReconcileWorker struct {
	db       *gorm.DB
	progress *services.ProgressService
	interval time.Duration
}

func NewSummaryReconcileWorker(db *gorm.DB, progress *services.ProgressService) *SummaryReconcileWorker {
	return &SummaryReconcileWorker{
		db:       db,
		progress: progress,
		interval: 5 * time.Minute,
	}
}

func (w *SummaryReconcileWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Summary Reconcile Worker…")
	go w.run(ctx)
}

func (w *SummaryReconcileWorker) run(ctx context.Context) {
	// Initial sweep on startup, then on every tick
	if err := w.sweep(); err != nil {
		log.Printf("⚠️ Initial reconcile sweep failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.sweep(); err != nil {
				log.Printf("❌ Reconcile sweep failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Summary Reconcile Worker stopped")
			return
		}
	}
}

func (w *SummaryReconcileWorker) sweep() error {
	var userIDs []string
	err := w.db.Raw(`
		SELECT DISTINCT cp.user_id
		FROM course_progresses cp
		LEFT JOIN user_progresses up ON up.user_id = cp.user_id
		WHERE cp.deleted_at IS NULL
		  AND (up.id IS NULL OR up.updated_at < cp.updated_at)
	`).Scan(&userIDs).Error
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		if _, err := w.progress.RecomputeSummary(userID); err != nil {
			log.Printf("⚠️ Reconcile failed for user %s: %v", userID, err)
			continue
		}
		log.Printf("🔄 Reconciled stale summary for user %s", userID)
	}
	return nil
}
