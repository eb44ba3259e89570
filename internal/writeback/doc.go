// Package writeback persists edited canonical records into WAV containers.
//
// Writes run inside an explicit staged transaction: Begin snapshots the file
// to a uniquely named backup and takes a per-path advisory lock, the new bytes
// replace the file, and Commit or Rollback finishes the exchange. A failed
// write always restores the original bytes before the error propagates.
// Backups of successful writes are removed unless retention is configured.
package writeback
