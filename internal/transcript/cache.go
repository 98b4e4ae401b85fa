package transcript

import (
	"context"
	"time"

	"github.com/voicevista/voicevista/internal/storage"
)

// SnapshotStore persists per-owner list snapshots.
type SnapshotStore interface {
	ReplaceSnapshot(ctx context.Context, owner string, records []storage.CachedRecord) error
	Snapshot(ctx context.Context, owner string) (*storage.Snapshot, error)
	DeleteSnapshot(ctx context.Context, owner string) error
}

// Cache keeps the last authoritative list per user so it can be shown
// before the next fetch completes.
type Cache struct {
	store SnapshotStore
}

// NewCache wraps a snapshot store.
func NewCache(store SnapshotStore) *Cache {
	return &Cache{store: store}
}

// Save stores l as the owner's snapshot. Unconfirmed records are skipped.
func (c *Cache) Save(ctx context.Context, owner string, l List) error {
	rows := make([]storage.CachedRecord, 0, len(l))
	for _, r := range l {
		if r.Unconfirmed {
			continue
		}
		rows = append(rows, storage.CachedRecord{
			ID:         r.ID,
			Title:      r.Title,
			Status:     string(r.Status),
			Date:       r.Date,
			Duration:   r.Duration,
			Transcript: r.Transcript,
			Summary:    r.Summary,
		})
	}
	return c.store.ReplaceSnapshot(ctx, owner, rows)
}

// Load returns the owner's snapshot and when it was fetched. The boolean is
// false when no snapshot exists.
func (c *Cache) Load(ctx context.Context, owner string) (List, time.Time, bool, error) {
	snap, err := c.store.Snapshot(ctx, owner)
	if err != nil || snap == nil {
		return nil, time.Time{}, false, err
	}
	l := make(List, 0, len(snap.Records))
	for _, r := range snap.Records {
		l = append(l, Record{
			ID:         r.ID,
			Title:      r.Title,
			Status:     Status(r.Status),
			Date:       r.Date,
			Duration:   r.Duration,
			Transcript: r.Transcript,
			Summary:    r.Summary,
		})
	}
	return l, snap.FetchedAt, true, nil
}

// Forget drops the owner's snapshot.
func (c *Cache) Forget(ctx context.Context, owner string) error {
	return c.store.DeleteSnapshot(ctx, owner)
}
