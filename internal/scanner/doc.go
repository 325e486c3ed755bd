// Package scanner keeps the catalog in sync with the media root directory.
//
// A scan is a two-level reconciliation: top-level directories become
// galleries, and the supported files inside each surviving gallery become its
// media. Both levels diff the filesystem against the catalog
// case-insensitively and stage their changes through the catalog's write
// buffer, so each level lands in a single batch. Only one scan runs at a
// time; a second request while one is in flight is reported as busy rather
// than queued.
//
// Progress events stream to connected clients through a notify.Publisher as
// the pass moves through its phases.
package scanner
