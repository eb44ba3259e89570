// Package session persists the review working set in SQLite.
//
// Scanned records land here with their resolved fields; edits accumulate as
// dirty rows until a save writes them back into the files. The database is a
// rebuildable index over the containers, never the source of truth for
// passthrough metadata, so schema bumps clear and rescan instead of
// migrating.
package session
