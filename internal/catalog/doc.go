// Package catalog persists the gallery and media catalog in SQLite.
//
// The catalog mirrors a subset of filesystem state: one row per gallery
// folder under the media root, and one row per supported media file inside a
// gallery. Rows are created and removed by the reconciler in internal/scanner
// (and by explicit API deletes); nothing else mutates them.
//
// Reconciler writes are staged in memory and flushed by Commit in a single
// transaction, so a crash mid-pass never leaves a half-written batch.
// Deleting a gallery cascades to its media rows via a foreign key.
package catalog
