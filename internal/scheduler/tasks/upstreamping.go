package tasks

import (
	"context"
	"time"

	"github.com/tunestream/tunestream/internal/scheduler"
	"github.com/tunestream/tunestream/internal/upstream"
)

const UpstreamPingTaskID = "upstream-ping"

// RegisterUpstreamPingTask registers the upstream keepalive task. Every
// minute it pings the music server, reconnecting first if the connection
// was lost.
func RegisterUpstreamPingTask(sched *scheduler.Scheduler, client *upstream.Client) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:         UpstreamPingTaskID,
		Name:       "Upstream Keepalive",
		Cron:       "* * * * *",
		RunOnStart: false,
		Func: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()

			if !client.Connected() {
				return client.Connect(ctx)
			}
			return client.Ping(ctx)
		},
	})
}
