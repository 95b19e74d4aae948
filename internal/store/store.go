// Package store persists report versions. The version store consults it
// only to save, load, list, and evict; all versioning policy lives above.
package store

import (
	"context"
	"time"

	"github.com/sells-group/nevintel/internal/model"
)

// VersionRef is a lightweight listing entry.
type VersionRef struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Seq       int       `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence interface consumed by the version store.
// Writes are all-or-nothing per version id; a failed put never corrupts
// previously saved versions.
type Store interface {
	// NextSequence atomically increments and returns the per-date version
	// counter. The counter survives eviction so sequence numbers are never
	// reused.
	NextSequence(ctx context.Context, date string) (int, error)

	// PutVersion persists one immutable version snapshot.
	PutVersion(ctx context.Context, v model.Version) error

	// GetVersion loads a version by id. Absent versions return (nil, nil).
	GetVersion(ctx context.Context, id string) (*model.Version, error)

	// ListByDate returns refs for one report date in ascending sequence order.
	ListByDate(ctx context.Context, date string) ([]VersionRef, error)

	// ListAll returns every ref in ascending creation order.
	ListAll(ctx context.Context) ([]VersionRef, error)

	// DeleteVersion removes one version. Deleting an absent id is a no-op.
	DeleteVersion(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
