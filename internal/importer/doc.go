// Package importer orchestrates fixture imports: fetch the calendar page,
// extract fixtures through a site adapter, and reconcile them against the
// persisted calendar with an idempotent natural-key upsert.
package importer
