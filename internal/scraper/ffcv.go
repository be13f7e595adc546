package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/clubdash/ffcv-import/internal/fixture"
	"github.com/clubdash/ffcv-import/internal/logger"
)

const (
	// ffcvTableSelector matches the calendar table on FFCV competition pages.
	ffcvTableSelector = "table.calendario_table"

	// ffcvRoundClass marks a round header row ("JORNADA N").
	ffcvRoundClass = "info_jornada"

	// ffcvRoundPrefix is stripped from round header text.
	ffcvRoundPrefix = "JORNADA "

	// ffcvMinCells is the minimum cell count for a fixture row.
	ffcvMinCells = 6
)

// FFCV parses fixture tables from resultadosffcv.isquad.es competition
// calendar pages. Field positions are fixed by the page layout: cell 2
// holds both team anchors, cell 3 the score spans, cell 4 the date and
// kickoff time, cell 5 the venue.
type FFCV struct{}

// NewFFCV creates the FFCV site adapter.
func NewFFCV() *FFCV { return &FFCV{} }

// Name implements SiteAdapter.
func (a *FFCV) Name() string { return "ffcv" }

// Parse implements SiteAdapter. Rows before the first round header carry a
// nil round label; a missing table yields an empty result, since the page
// may simply have no fixtures configured yet.
func (a *FFCV) Parse(doc *goquery.Document) []*fixture.Fixture {
	fixtures := make([]*fixture.Fixture, 0)

	table := doc.Find(ffcvTableSelector).First()
	if table.Length() == 0 {
		logger.Debug("fixture table not found", logger.Fields{"site": a.Name()})
		return fixtures
	}

	var round *string

	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		if row.HasClass(ffcvRoundClass) {
			label := strings.TrimSpace(row.Find("td").First().Text())
			label = strings.ReplaceAll(label, ffcvRoundPrefix, "")
			round = &label
			return
		}

		f, ok := a.parseRow(row, round)
		if !ok {
			return
		}
		if f.Valid() {
			fixtures = append(fixtures, f)
		}
	})

	return fixtures
}

// parseRow extracts one fixture from a table row. A row with fewer than
// six cells, or one that panics mid-extraction, is skipped without
// aborting the rest of the page.
func (a *FFCV) parseRow(row *goquery.Selection, round *string) (f *fixture.Fixture, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("skipping fixture row", logger.Fields{
				"site":   a.Name(),
				"reason": fmt.Sprint(r),
			})
			f, ok = nil, false
		}
	}()

	cells := row.Find("td")
	if cells.Length() < ffcvMinCells {
		return nil, false
	}

	f = &fixture.Fixture{
		Competition: fixture.DefaultCompetition,
		Imported:    true,
	}
	if round != nil {
		label := *round
		f.Round = &label
	}

	f.HomeTeam, f.AwayTeam = a.extractTeams(cells.Eq(2))
	f.HomeGoals, f.AwayGoals = a.extractGoals(cells.Eq(3))
	f.Date = fixture.ParseDate(cells.Eq(4).Find("div.negrita").First().Text())
	f.Kickoff = a.extractKickoff(cells.Eq(4))
	f.Venue = a.extractVenue(cells.Eq(5))
	// Referees are not published on this page layout.
	f.Referee = nil

	return f, true
}

// extractTeams reads the two team anchors in document order: the first is
// the home side, the second the away side. A missing anchor yields nil for
// that side.
func (a *FFCV) extractTeams(cell *goquery.Selection) (home, away *string) {
	anchors := cell.Find("a")
	if anchors.Length() >= 1 {
		if name := strings.TrimSpace(anchors.Eq(0).Text()); name != "" {
			home = &name
		}
	}
	if anchors.Length() >= 2 {
		if name := strings.TrimSpace(anchors.Eq(1).Text()); name != "" {
			away = &name
		}
	}
	return home, away
}

// extractGoals reads the score spans in the same order as the teams.
// Non-numeric content means the fixture has not been played yet.
func (a *FFCV) extractGoals(cell *goquery.Selection) (home, away *int) {
	spans := cell.Find("span")
	if spans.Length() < 2 {
		return nil, nil
	}
	home = parseGoals(spans.Eq(0).Text())
	away = parseGoals(spans.Eq(1).Text())
	return home, away
}

// extractKickoff reads the kickoff time from the second div of the
// date cell; the first div (class "negrita") holds the date.
func (a *FFCV) extractKickoff(cell *goquery.Selection) *string {
	divs := cell.Find("div")
	if divs.Length() < 2 {
		return nil
	}
	text := strings.TrimSpace(divs.Eq(1).Text())
	if text == "" {
		return nil
	}
	return &text
}

// extractVenue collapses the whole cell text, which includes the map icon
// markup around the field name.
func (a *FFCV) extractVenue(cell *goquery.Selection) *string {
	text := fixture.NormalizeSpace(cell.Text())
	if text == "" {
		return nil
	}
	return &text
}

func parseGoals(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	return &n
}
