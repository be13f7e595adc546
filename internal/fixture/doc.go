// Package fixture defines the match record produced by scraping and the
// natural key used to reconcile it against the persisted calendar.
package fixture
