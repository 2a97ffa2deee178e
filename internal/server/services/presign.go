package services

import "context"

// Presigner issues time-limited URLs for direct object uploads and downloads.
// Implemented by storage.Client.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}
