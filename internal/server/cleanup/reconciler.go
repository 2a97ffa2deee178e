// Package cleanup implements the batch job that removes objects from
// storage once nothing references them any more, and then drops their
// bookkeeping rows.
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/config"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdiary/internal/server/storage"
)

// ObjectDeleter removes objects from the bucket. Implemented by storage.Client.
type ObjectDeleter interface {
	DeleteObjects(ctx context.Context, keys []string) error
}

type Options struct {
	// GracePeriod protects fresh uploads that are not linked to a post yet.
	GracePeriod time.Duration
	// ClaimTTL is how long a claim may be held before another run takes over.
	ClaimTTL time.Duration
	// QueueBatch caps the queued objects drained per run.
	QueueBatch int
	// OrphanBatch caps the orphaned images reclaimed per run.
	OrphanBatch int
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		GracePeriod: cfg.OrphanGracePeriod,
		ClaimTTL:    cfg.CleanupClaimTTL,
		QueueBatch:  cfg.CleanupQueueBatch,
		OrphanBatch: cfg.CleanupOrphanBatch,
	}
}

// Report sums up one run.
type Report struct {
	Released int64

	Found   int
	Deleted int
	Failed  int

	Queued       int
	QueueDeleted int
	QueueFailed  int
}

type Reconciler struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectDeleter
	log         logging.Logger
	opts        Options
	now         func() time.Time
}

func NewReconciler(db *sql.DB, m repomanager.RepositoryManager, store ObjectDeleter, log logging.Logger, opts Options) *Reconciler {
	return &Reconciler{
		db:          db,
		repomanager: m,
		store:       store,
		log:         log.With("module", "cleanup"),
		opts:        opts,
		now:         time.Now,
	}
}

// Run performs one pass. Storage failures are per key and only counted;
// the returned error means the run itself could not proceed.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var rep Report
	now := r.now().UTC()

	if err := r.reclaimOrphans(ctx, now, &rep); err != nil {
		return rep, err
	}
	if err := r.drainQueue(ctx, &rep); err != nil {
		return rep, err
	}
	return rep, nil
}

func (r *Reconciler) reclaimOrphans(ctx context.Context, now time.Time, rep *Report) error {
	images := r.repomanager.Images(r.db)

	released, err := images.ReleaseStale(ctx, now.Add(-r.opts.ClaimTTL))
	if err != nil {
		return err
	}
	rep.Released = released
	if released > 0 {
		r.log.Warn(ctx, "released stale claims", "count", released)
	}

	candidates, err := images.SelectOrphans(ctx, now.Add(-r.opts.GracePeriod), r.opts.OrphanBatch)
	if err != nil {
		return err
	}

	claimed, err := images.Claim(ctx, candidates, now)
	if err != nil {
		return err
	}

	// A post may have linked a key after it was selected.
	linked, err := r.repomanager.Posts(r.db).LinkedKeys(ctx, claimed)
	if err != nil {
		return err
	}
	if len(linked) > 0 {
		if err := images.Release(ctx, linked); err != nil {
			return err
		}
		claimed = without(claimed, linked)
	}
	rep.Found = len(claimed)

	deleted, failed := r.deleteObjects(ctx, claimed)

	if len(failed) > 0 {
		// On error the claims expire after ClaimTTL instead.
		if err := images.Release(ctx, failed); err != nil {
			r.log.Error(ctx, "failed to release claims", "count", len(failed), "error", err.Error())
		}
	}

	if len(deleted) > 0 {
		err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			txImages := r.repomanager.Images(tx)
			if err := txImages.DeleteGeoData(ctx, deleted); err != nil {
				return err
			}
			return txImages.Delete(ctx, deleted)
		})
		if err != nil {
			return fmt.Errorf("remove image rows: %w", err)
		}
	}

	rep.Deleted = len(deleted)
	rep.Failed = len(failed)
	r.log.Info(ctx, "orphaned images processed", "found", rep.Found, "deleted", rep.Deleted, "failed", rep.Failed)
	return nil
}

// drainQueue removes objects whose rows were dropped by cascade deletes.
func (r *Reconciler) drainQueue(ctx context.Context, rep *Report) error {
	queue := r.repomanager.PendingObjects(r.db)

	keys, err := queue.List(ctx, r.opts.QueueBatch)
	if err != nil {
		return err
	}
	rep.Queued = len(keys)

	deleted, failed := r.deleteObjects(ctx, keys)
	if err := queue.Delete(ctx, deleted); err != nil {
		return err
	}
	if err := queue.Requeue(ctx, failed); err != nil {
		return err
	}

	rep.QueueDeleted = len(deleted)
	rep.QueueFailed = len(failed)
	r.log.Info(ctx, "queued objects processed", "found", rep.Queued, "deleted", rep.QueueDeleted, "failed", rep.QueueFailed)
	return nil
}

// deleteObjects removes every variant of each key with one request per key.
func (r *Reconciler) deleteObjects(ctx context.Context, keys []string) (deleted, failed []string) {
	for _, key := range keys {
		if err := r.store.DeleteObjects(ctx, storage.VariantKeys(key)); err != nil {
			r.log.Warn(ctx, "object delete failed, will retry", "key", key, "error", err.Error())
			failed = append(failed, key)
			continue
		}
		deleted = append(deleted, key)
	}
	return deleted, failed
}

func without(keys, drop []string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, k := range drop {
		skip[k] = struct{}{}
	}
	out := keys[:0:0]
	for _, k := range keys {
		if _, ok := skip[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
