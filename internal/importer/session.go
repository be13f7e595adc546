package importer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clubdash/ffcv-import/internal/logger"
	"github.com/clubdash/ffcv-import/internal/metrics"
	"github.com/clubdash/ffcv-import/internal/scraper"
)

var (
	// ErrNotConfigured is returned in the result when Run is called
	// before Configure.
	ErrNotConfigured = errors.New("scraper URL not configured")

	// ErrNoFixtures signals a reachable page that yielded zero valid
	// fixtures, which usually means an upstream layout change.
	ErrNoFixtures = errors.New("no fixtures found")
)

// Result is what one import run reports back to the caller.
type Result struct {
	RunID          string  `json:"run_id"`
	Success        bool    `json:"success"`
	Created        int     `json:"created"`
	Updated        int     `json:"updated"`
	TotalMatches   int     `json:"total_matches"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Timestamp      string  `json:"timestamp,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Session owns one import configuration and runs imports against it. Build
// one per caller with NewSession; there is deliberately no package-level
// instance. A mutex serializes Run so two triggers cannot race on the same
// calendar.
type Session struct {
	mu         sync.Mutex
	fetcher    Fetcher
	adapter    scraper.SiteAdapter
	reconciler *Reconciler
	metrics    *metrics.Metrics

	url        string
	configured bool
	lastRun    *time.Time
	lastResult *Result
}

// NewSession wires a session from its collaborators. metrics may be nil.
func NewSession(fetcher Fetcher, adapter scraper.SiteAdapter, store Store, m *metrics.Metrics) *Session {
	return &Session{
		fetcher:    fetcher,
		adapter:    adapter,
		reconciler: NewReconciler(store),
		metrics:    m,
	}
}

// Configure sets the calendar URL for subsequent runs. An empty URL leaves
// the session unconfigured.
func (s *Session) Configure(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
	s.configured = url != ""
}

// Run performs one import: fetch, extract, reconcile. It never returns an
// error; every failure mode is folded into the Result so the surrounding
// application can render it directly. Concurrent calls are serialized.
func (s *Session) Run(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	runID := uuid.NewString()

	if !s.configured {
		return s.finishFailure(runID, start, metrics.OutcomeFailure, ErrNotConfigured)
	}

	logger.Info("import started", logger.Fields{
		"run_id": runID,
		"site":   s.adapter.Name(),
		"url":    s.url,
	})

	doc, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return s.finishFailure(runID, start, metrics.OutcomeFailure, err)
	}

	records := s.adapter.Parse(doc)
	if len(records) == 0 {
		return s.finishFailure(runID, start, metrics.OutcomeEmpty, ErrNoFixtures)
	}

	created, updated, err := s.reconciler.Reconcile(ctx, records)
	if err != nil {
		return s.finishFailure(runID, start, metrics.OutcomeFailure, err)
	}

	now := time.Now().UTC()
	res := Result{
		RunID:          runID,
		Success:        true,
		Created:        created,
		Updated:        updated,
		TotalMatches:   len(records),
		ElapsedSeconds: time.Since(start).Seconds(),
		Timestamp:      now.Format(time.RFC3339),
	}
	s.lastRun = &now
	s.lastResult = &res

	if s.metrics != nil {
		s.metrics.RecordRun(metrics.OutcomeSuccess, created, updated, res.ElapsedSeconds)
	}
	logger.Info("import finished", logger.Fields{
		"run_id":  runID,
		"created": created,
		"updated": updated,
		"total":   len(records),
	})
	return res
}

// LastRun returns when the last successful run finished.
func (s *Session) LastRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun == nil {
		return time.Time{}, false
	}
	return *s.lastRun, true
}

// LastResult returns the result of the most recent run, successful or not.
func (s *Session) LastResult() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return Result{}, false
	}
	return *s.lastResult, true
}

// finishFailure builds a failure result and records it. Callers must hold
// the session mutex.
func (s *Session) finishFailure(runID string, start time.Time, outcome string, err error) Result {
	res := Result{
		RunID:          runID,
		Success:        false,
		ElapsedSeconds: time.Since(start).Seconds(),
		Error:          err.Error(),
	}
	s.lastResult = &res

	if s.metrics != nil {
		s.metrics.RecordRun(outcome, 0, 0, res.ElapsedSeconds)
	}
	logger.Error("import failed", logger.Fields{"run_id": runID}, err)
	return res
}
