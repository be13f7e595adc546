package importer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/clubdash/ffcv-import/internal/scraper"
)

// calendarHTML is the scenario from the dashboard's import screen: one
// round header followed by a played and an unplayed fixture.
const calendarHTML = `
<table class="table calendario_table"><tbody>
  <tr class="info_jornada"><td colspan="6">JORNADA 1</td></tr>
  <tr>
    <td></td><td></td>
    <td><a href="#">Home FC</a><a href="#">Away FC</a></td>
    <td><span>2</span><span>1</span></td>
    <td><div class="negrita">15-03-2025</div><div>17:00</div></td>
    <td>Main Field</td>
  </tr>
  <tr>
    <td></td><td></td>
    <td><a href="#">Home FC</a><a href="#">Other FC</a></td>
    <td><span></span><span></span></td>
    <td><div class="negrita">22-03-2025</div></td>
    <td></td>
  </tr>
</tbody></table>`

type fakeFetcher struct {
	mu    sync.Mutex
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

func newTestSession(fetcher Fetcher, store Store) *Session {
	return NewSession(fetcher, scraper.NewFFCV(), store, nil)
}

func TestRunNotConfigured(t *testing.T) {
	fetcher := &fakeFetcher{html: calendarHTML}
	store := newFakeStore()
	s := newTestSession(fetcher, store)

	res := s.Run(context.Background())

	if res.Success {
		t.Error("unconfigured run must fail")
	}
	if res.Error != ErrNotConfigured.Error() {
		t.Errorf("error = %q, expected %q", res.Error, ErrNotConfigured)
	}
	if fetcher.calls != 0 {
		t.Error("no network call may be attempted before configuration")
	}
	if store.begins != 0 {
		t.Error("store must not be touched")
	}
}

func TestRunEndToEnd(t *testing.T) {
	fetcher := &fakeFetcher{html: calendarHTML}
	store := newFakeStore()
	s := newTestSession(fetcher, store)
	s.Configure("https://resultadosffcv.example/calendario")

	res := s.Run(context.Background())

	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	if res.Created != 2 || res.Updated != 0 || res.TotalMatches != 2 {
		t.Errorf("created=%d updated=%d total=%d, expected 2/0/2",
			res.Created, res.Updated, res.TotalMatches)
	}
	if res.Timestamp == "" {
		t.Error("successful result should carry a timestamp")
	}
	if res.RunID == "" {
		t.Error("result should carry a run ID")
	}
	if res.ElapsedSeconds < 0 {
		t.Errorf("elapsed seconds should be non-negative, got %f", res.ElapsedSeconds)
	}
	if _, ok := s.LastRun(); !ok {
		t.Error("last run should be recorded after success")
	}

	// Second run on unchanged source data: idempotent, re-asserting the
	// same values still counts every record as updated.
	res = s.Run(context.Background())
	if !res.Success {
		t.Fatalf("second run failed: %s", res.Error)
	}
	if res.Created != 0 || res.Updated != 2 {
		t.Errorf("second run: created=%d updated=%d, expected 0/2", res.Created, res.Updated)
	}

	last, ok := s.LastResult()
	if !ok || last.RunID != res.RunID {
		t.Error("last result should reflect the most recent run")
	}
}

func TestRunFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("context deadline exceeded")}
	store := newFakeStore()
	s := newTestSession(fetcher, store)
	s.Configure("https://resultadosffcv.example/calendario")

	res := s.Run(context.Background())

	if res.Success {
		t.Error("fetch failure must fail the run")
	}
	if res.Error == "" {
		t.Error("fetch failure must carry an error message")
	}
	if store.begins != 0 {
		t.Error("the store must never be touched when the fetch fails")
	}
	if _, ok := s.LastRun(); ok {
		t.Error("failed runs must not update the last-run marker")
	}
}

func TestRunNoFixturesFound(t *testing.T) {
	fetcher := &fakeFetcher{html: `<html><body><p>Mantenimiento</p></body></html>`}
	store := newFakeStore()
	s := newTestSession(fetcher, store)
	s.Configure("https://resultadosffcv.example/calendario")

	res := s.Run(context.Background())

	if res.Success {
		t.Error("an empty page must fail the run")
	}
	if res.Error != ErrNoFixtures.Error() {
		t.Errorf("error = %q, expected %q", res.Error, ErrNoFixtures)
	}
	if store.begins != 0 {
		t.Error("nothing should be written for an empty extraction")
	}
}

func TestRunReconcileFailure(t *testing.T) {
	fetcher := &fakeFetcher{html: calendarHTML}
	store := newFakeStore()
	store.failCommit = errors.New("database is locked")
	s := newTestSession(fetcher, store)
	s.Configure("https://resultadosffcv.example/calendario")

	res := s.Run(context.Background())

	if res.Success {
		t.Error("persistence failure must fail the run")
	}
	if !strings.Contains(res.Error, "database is locked") {
		t.Errorf("error should carry the underlying cause, got %q", res.Error)
	}
}

func TestRunReconfigure(t *testing.T) {
	fetcher := &fakeFetcher{html: calendarHTML}
	s := newTestSession(fetcher, newFakeStore())

	s.Configure("https://resultadosffcv.example/calendario")
	s.Configure("")

	if res := s.Run(context.Background()); res.Success {
		t.Error("clearing the URL should leave the session unconfigured")
	}
}

func TestRunSerializesConcurrentCalls(t *testing.T) {
	fetcher := &fakeFetcher{html: calendarHTML}
	store := newFakeStore()
	s := newTestSession(fetcher, store)
	s.Configure("https://resultadosffcv.example/calendario")

	var wg sync.WaitGroup
	results := make([]Result, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Run(context.Background())
		}(i)
	}
	wg.Wait()

	totalCreated := results[0].Created + results[1].Created
	totalUpdated := results[0].Updated + results[1].Updated
	if totalCreated != 2 || totalUpdated != 2 {
		t.Errorf("serialized runs should create 2 then update 2, got created=%d updated=%d",
			totalCreated, totalUpdated)
	}
	if len(store.entries) != 2 {
		t.Errorf("expected 2 entries after concurrent runs, got %d", len(store.entries))
	}
}
