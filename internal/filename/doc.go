// Package filename derives partial metadata records from production filenames.
//
// Two strategies run in order: a strict field-recorder grammar, then a generic
// underscore-token fallback. Malformed names simply fail to match.
package filename
