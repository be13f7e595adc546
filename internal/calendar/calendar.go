package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clubdash/ffcv-import/internal/fixture"
)

// Entry is a persisted calendar row. Imported entries come from the
// scraper; the rest are entered by hand through the dashboard.
type Entry struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Date        *time.Time `gorm:"index:idx_calendar_natural_key" json:"date"`
	Kickoff     *string    `json:"kickoff"`
	Competition string     `gorm:"index:idx_calendar_natural_key;not null" json:"competition"`
	Round       *string    `json:"round"`
	HomeTeam    string     `gorm:"index:idx_calendar_natural_key;not null" json:"home_team"`
	AwayTeam    string     `gorm:"index:idx_calendar_natural_key;not null" json:"away_team"`
	HomeGoals   *int       `json:"home_goals"`
	AwayGoals   *int       `json:"away_goals"`
	Referee     *string    `json:"referee"`
	Venue       *string    `json:"venue"`
	Imported    bool       `json:"imported"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName keeps the table name the dashboard schema uses.
func (Entry) TableName() string { return "calendar_entries" }

// newEntry builds a fresh Entry from a scraped fixture.
func newEntry(rec *fixture.Fixture) *Entry {
	e := &Entry{
		Competition: rec.Competition,
		Imported:    rec.Imported,
	}
	e.apply(rec)
	return e
}

// apply overwrites every field the fixture carries a value for. Nil fields
// never regress stored values: a re-scrape before kickoff data appears must
// not blank out a final score.
func (e *Entry) apply(rec *fixture.Fixture) {
	if rec.Date != nil {
		d := *rec.Date
		e.Date = &d
	}
	if rec.Kickoff != nil {
		v := *rec.Kickoff
		e.Kickoff = &v
	}
	if rec.Competition != "" {
		e.Competition = rec.Competition
	}
	if rec.Round != nil {
		v := *rec.Round
		e.Round = &v
	}
	if rec.HomeTeam != nil {
		e.HomeTeam = *rec.HomeTeam
	}
	if rec.AwayTeam != nil {
		e.AwayTeam = *rec.AwayTeam
	}
	if rec.HomeGoals != nil {
		v := *rec.HomeGoals
		e.HomeGoals = &v
	}
	if rec.AwayGoals != nil {
		v := *rec.AwayGoals
		e.AwayGoals = &v
	}
	if rec.Referee != nil {
		v := *rec.Referee
		e.Referee = &v
	}
	if rec.Venue != nil {
		v := *rec.Venue
		e.Venue = &v
	}
	if rec.Imported {
		e.Imported = true
	}
}

// Store owns the SQLite calendar database.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the calendar database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Begin starts a write batch backed by one database transaction.
func (s *Store) Begin(ctx context.Context) (*Batch, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("beginning batch: %w", tx.Error)
	}
	return &Batch{tx: tx}, nil
}

// List returns all entries ordered by date, nulls last. Used by the status
// surface and tests; the dashboard proper has richer queries of its own.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	err := s.db.WithContext(ctx).
		Order("date IS NULL, date, id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return out, nil
}

// Count returns the number of persisted entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Entry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// Batch groups the writes of one import run into a single transaction.
type Batch struct {
	tx *gorm.DB
}

// FindByNaturalKey looks up an entry by exact (date, home, away,
// competition) equality. Returns nil without error when no entry matches.
func (b *Batch) FindByNaturalKey(ctx context.Context, key fixture.Key) (*Entry, error) {
	q := b.tx.WithContext(ctx).
		Where("home_team = ? AND away_team = ? AND competition = ?",
			key.HomeTeam, key.AwayTeam, key.Competition)
	if key.Date != nil {
		q = q.Where("date = ?", *key.Date)
	} else {
		q = q.Where("date IS NULL")
	}

	var e Entry
	if err := q.First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying entry: %w", err)
	}
	return &e, nil
}

// Insert creates a new entry from the fixture.
func (b *Batch) Insert(ctx context.Context, rec *fixture.Fixture) (*Entry, error) {
	e := newEntry(rec)
	if err := b.tx.WithContext(ctx).Create(e).Error; err != nil {
		return nil, fmt.Errorf("inserting entry: %w", err)
	}
	return e, nil
}

// Update merges the fixture into the entry and writes it back, refreshing
// the updated-at timestamp even when no field value changed.
func (b *Batch) Update(ctx context.Context, e *Entry, rec *fixture.Fixture) error {
	e.apply(rec)
	e.UpdatedAt = time.Now().UTC()
	if err := b.tx.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}
	return nil
}

// Commit makes the whole batch durable.
func (b *Batch) Commit() error {
	if err := b.tx.Commit().Error; err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Rollback discards the batch. Safe to call after Commit; gorm turns that
// into a no-op error which is ignored here.
func (b *Batch) Rollback() error {
	if err := b.tx.Rollback().Error; err != nil && !errors.Is(err, gorm.ErrInvalidTransaction) {
		return fmt.Errorf("rolling back batch: %w", err)
	}
	return nil
}
