package fixture

import (
	"fmt"
	"strings"
	"time"
)

// DefaultCompetition is used when the source page does not expose a
// competition per row.
const DefaultCompetition = "Liga"

// DateLayout is the date format used by the FFCV calendar page (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// Fixture is one scraped match record. Optional fields are pointers; nil
// means the source page did not provide a value.
type Fixture struct {
	Date        *time.Time `json:"date"`
	Round       *string    `json:"round"`
	Competition string     `json:"competition"`
	HomeTeam    *string    `json:"home_team"`
	AwayTeam    *string    `json:"away_team"`
	HomeGoals   *int       `json:"home_goals"`
	AwayGoals   *int       `json:"away_goals"`
	Kickoff     *string    `json:"kickoff"`
	Venue       *string    `json:"venue"`
	Referee     *string    `json:"referee"`
	Imported    bool       `json:"imported"`
}

// Key is the natural key identifying a fixture: two records with the same
// key are the same logical match at different points in time.
type Key struct {
	Date        *time.Time
	HomeTeam    string
	AwayTeam    string
	Competition string
}

// Key returns the natural key for the fixture. Valid fixtures always have
// both team names; a nil date stays nil in the key.
func (f *Fixture) Key() Key {
	k := Key{Competition: f.Competition}
	if f.Date != nil {
		d := *f.Date
		k.Date = &d
	}
	if f.HomeTeam != nil {
		k.HomeTeam = *f.HomeTeam
	}
	if f.AwayTeam != nil {
		k.AwayTeam = *f.AwayTeam
	}
	return k
}

// Valid reports whether the fixture can be reconciled. Only the team names
// are required; a missing date does not invalidate a record.
func (f *Fixture) Valid() bool {
	return f.HomeTeam != nil && *f.HomeTeam != "" && f.AwayTeam != nil && *f.AwayTeam != ""
}

// Played reports whether both goal counts are known.
func (f *Fixture) Played() bool {
	return f.HomeGoals != nil && f.AwayGoals != nil
}

// String renders the key in a stable form usable as a map key.
func (k Key) String() string {
	date := ""
	if k.Date != nil {
		date = k.Date.Format(DateLayout)
	}
	return fmt.Sprintf("%s|%s|%s|%s", date, k.HomeTeam, k.AwayTeam, k.Competition)
}

// ParseDate parses a DD-MM-YYYY date from the calendar page. Returns nil
// when the text does not match the layout.
func ParseDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, text)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// NormalizeSpace collapses runs of whitespace to a single space and trims
// the result. Used for venue text which carries icon markup around it.
func NormalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
