package persistence

import "context"

// SnapshotRepository stores the single application-state snapshot. Save
// overwrites the previous snapshot entirely; Load returns ErrNotFound when
// no snapshot has ever been written.
type SnapshotRepository interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}
