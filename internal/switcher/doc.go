// Package switcher reconciles the sound server's sink set with the
// configured routing roles. It keeps a table from each sink's stable card
// name to its current handle, reacts to sink events one at a time, and moves
// every playback stream to the fallback or preferred sink when routing
// should change.
package switcher
