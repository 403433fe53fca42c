// Package objectstore wraps the external blob store the export projector
// publishes to. Consumers depend on the Store interface, never on the SDK.
package objectstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Store is the minimal surface the application needs from a blob store.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}
