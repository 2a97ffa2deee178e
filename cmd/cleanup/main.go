// Command cleanup reclaims orphaned images and drains the object deletion
// queue once, then exits. Run it from cron or a scheduled job.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophdiary/internal/server"
	"github.com/dmitrijs2005/gophdiary/internal/server/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	rep, err := server.RunCleanup(ctx, cfg)
	if err != nil {
		log.Printf("cleanup failed: %v", err)
		stop()
		os.Exit(1)
	}

	log.Printf("cleanup done: released=%d found=%d deleted=%d failed=%d queued=%d queue_deleted=%d queue_failed=%d",
		rep.Released, rep.Found, rep.Deleted, rep.Failed, rep.Queued, rep.QueueDeleted, rep.QueueFailed)
}
