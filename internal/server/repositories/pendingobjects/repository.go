package pendingobjects

import "context"

// Repository is the queue of object keys whose bookkeeping rows are gone
// but whose objects are still in the bucket.
type Repository interface {
	EnqueueForDiary(ctx context.Context, diaryID string) error
	EnqueueForEntry(ctx context.Context, entryID string) error
	List(ctx context.Context, limit int) ([]string, error)
	Delete(ctx context.Context, keys []string) error
	// Requeue moves keys to the back of the queue.
	Requeue(ctx context.Context, keys []string) error
}
