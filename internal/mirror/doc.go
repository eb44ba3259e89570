// Package mirror projects canonical records onto a new directory tree.
//
// Destination paths are derived from ordered organize levels; blank field
// values fall back to a Misc folder. Existing destinations are reported as
// skip conflicts before any bytes move. Each file is copied and then stamped
// with the record's in-memory metadata, so mirrored copies carry unsaved
// edits. Per-file failures never stop the rest of the batch.
package mirror
