// Package calendar persists the club's match calendar in SQLite via GORM.
//
// The store exposes a batch API: an import run opens one batch, performs
// its natural-key lookups, inserts and updates inside it, and commits once
// at the end. A failure anywhere in the batch rolls the whole run back.
package calendar
