// Package ixml models the XML structured-metadata chunk embedded in WAV files.
//
// The known production fields (PROJECT, SCENE, TAKE, SLATE, CATEGORY,
// SUBCATEGORY, NOTE, WILD_TRACK, CIRCLED) are exposed as a narrow typed
// sub-record; every other element is kept in an unrecognized-element bag so
// write-back never discards vendor data.
package ixml
