// Package testsupport provides shared fixtures for slated tests: temp-rooted
// configs and WAV container builders.
package testsupport
