// Package api exposes the engine's public operations behind one facade:
// single-file read and write, bounded batch reads, directory scans, and
// mirror runs with their dry-run conflict check.
package api
