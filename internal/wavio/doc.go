// Package wavio is the container accessor for WAV byte buffers.
//
// Parse walks the RIFF chunk list once and keeps every chunk's raw body, so a
// file can be serialized back with Bytes without disturbing chunks slated does
// not interpret. Typed views are additive: fmt and data feed file info, bext
// carries broadcast metadata (fixed Latin-1 fields per EBU Tech 3285), and the
// iXML chunk is exposed as an opaque string for the structured-metadata layer.
//
// The accessor never reads or writes the filesystem; callers own the bytes.
package wavio
