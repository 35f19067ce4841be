// Package tasks wires the application's background jobs into the scheduler.
package tasks

import (
	"context"
	"time"

	"github.com/tunestream/tunestream/internal/history"
	"github.com/tunestream/tunestream/internal/scheduler"
)

const HistoryCleanupTaskID = "history-cleanup"

// RegisterHistoryCleanupTask registers the history cleanup task. It runs
// daily at 2 AM and deletes search history entries older than the retention
// period.
func RegisterHistoryCleanupTask(sched *scheduler.Scheduler, historyService *history.Service, retentionDays int) error {
	retention := time.Duration(retentionDays) * 24 * time.Hour
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:         HistoryCleanupTaskID,
		Name:       "History Cleanup",
		Cron:       "0 2 * * *",
		RunOnStart: false,
		Func: func(ctx context.Context) error {
			_, err := historyService.Prune(ctx, retention)
			return err
		},
	})
}
