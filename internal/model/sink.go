// Package model defines the core data types for sinkswitch.
package model

import (
	"sort"
)

// Sink is a logical audio output endpoint exposed by the sound server.
type Sink struct {
	// StableName is the ALSA card name. It survives reboots and replugs.
	StableName string `json:"stable_name"`

	// Handle is the sink index assigned by the sound server.
	// It is reassigned every time the sink is created, so it is not
	// stable across replug events.
	Handle int `json:"handle"`
}

// SinkTable maps a sink's stable name to its current handle.
// It holds at most one entry per stable name.
// A SinkTable is not safe for concurrent use.
type SinkTable struct {
	sinks map[string]Sink
}

// NewSinkTable creates an empty SinkTable.
func NewSinkTable() *SinkTable {
	return &SinkTable{sinks: make(map[string]Sink)}
}

// Replace discards every entry and rebuilds the table from sinks.
// When two sinks share a stable name the later one wins.
func (t *SinkTable) Replace(sinks []Sink) {
	next := make(map[string]Sink, len(sinks))
	for _, s := range sinks {
		next[s.StableName] = s
	}
	t.sinks = next
}

// RemoveHandle removes every entry whose handle equals handle and
// returns how many were removed.
func (t *SinkTable) RemoveHandle(handle int) int {
	removed := 0
	for name, s := range t.sinks {
		if s.Handle == handle {
			delete(t.sinks, name)
			removed++
		}
	}
	return removed
}

// Lookup returns the sink registered under stableName.
func (t *SinkTable) Lookup(stableName string) (Sink, bool) {
	s, ok := t.sinks[stableName]
	return s, ok
}

// Len returns the number of entries.
func (t *SinkTable) Len() int {
	return len(t.sinks)
}

// All returns a copy of every entry ordered by handle.
func (t *SinkTable) All() []Sink {
	all := make([]Sink, 0, len(t.sinks))
	for _, s := range t.sinks {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Handle != all[j].Handle {
			return all[i].Handle < all[j].Handle
		}
		return all[i].StableName < all[j].StableName
	})
	return all
}

// Snapshot returns the table as a stable name to handle map.
func (t *SinkTable) Snapshot() map[string]int {
	out := make(map[string]int, len(t.sinks))
	for name, s := range t.sinks {
		out[name] = s.Handle
	}
	return out
}
