// Package metadata defines the canonical metadata record and the resolver
// that merges its three competing sources.
//
// Per-field precedence runs structured metadata first, then the filename
// match, then broadcast metadata, expressed as one declarative rule table so
// the chains stay unit-testable. The precedence is re-derived on every read
// and never persisted. A regex pass over the broadcast description recovers
// scene/take hints that none of the structured sources provided.
package metadata
