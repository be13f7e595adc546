package importer

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/clubdash/ffcv-import/internal/calendar"
	"github.com/clubdash/ffcv-import/internal/fixture"
)

// Fetcher retrieves a calendar page as a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Store opens write batches against the persisted calendar.
type Store interface {
	Begin(ctx context.Context) (Batch, error)
}

// StoreFunc adapts a batch-opening function to the Store interface.
type StoreFunc func(ctx context.Context) (Batch, error)

// Begin implements Store.
func (f StoreFunc) Begin(ctx context.Context) (Batch, error) { return f(ctx) }

// Batch is one transactional import run against the calendar store. Either
// the whole batch commits or none of it does.
type Batch interface {
	FindByNaturalKey(ctx context.Context, key fixture.Key) (*calendar.Entry, error)
	Insert(ctx context.Context, rec *fixture.Fixture) (*calendar.Entry, error)
	Update(ctx context.Context, entry *calendar.Entry, rec *fixture.Fixture) error
	Commit() error
	Rollback() error
}

// Reconciler merges scraped fixtures into the calendar store.
type Reconciler struct {
	store Store
}

// NewReconciler creates a Reconciler over the given store.
func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile upserts each record by natural key inside a single batch.
// Records are processed sequentially and each decision re-queries batch
// state, so a fixture appearing twice in the page updates the entry the
// first occurrence created instead of inserting a duplicate. A key match
// always counts as an update, even when every field is unchanged. Any
// failure rolls the whole batch back.
func (r *Reconciler) Reconcile(ctx context.Context, records []*fixture.Fixture) (created, updated int, err error) {
	batch, err := r.store.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("opening batch: %w", err)
	}

	for _, rec := range records {
		existing, err := batch.FindByNaturalKey(ctx, rec.Key())
		if err != nil {
			batch.Rollback()
			return 0, 0, fmt.Errorf("looking up fixture: %w", err)
		}

		if existing != nil {
			if err := batch.Update(ctx, existing, rec); err != nil {
				batch.Rollback()
				return 0, 0, fmt.Errorf("updating fixture: %w", err)
			}
			updated++
			continue
		}

		if _, err := batch.Insert(ctx, rec); err != nil {
			batch.Rollback()
			return 0, 0, fmt.Errorf("inserting fixture: %w", err)
		}
		created++
	}

	if err := batch.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing batch: %w", err)
	}
	return created, updated, nil
}
