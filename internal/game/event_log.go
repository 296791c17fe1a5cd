package game

import (
	"fmt"
	"strings"
)

// Event categories recorded by the session.
const (
	CatState  = "state"  // modal state transitions
	CatCombat = "combat" // shots, hits, kills
	CatWall   = "wall"
	CatBonus  = "bonus"
	CatLevel  = "level" // generation and placement
	CatAudio  = "audio"
)

// Event is one recorded occurrence during a session.
type Event struct {
	Tick     int
	Category string
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[T=0042] combat   enemy_destroyed  at (612,300)
func (e Event) String() string {
	return fmt.Sprintf("[T=%04d] %-8s %-16s %s", e.Tick, e.Category, e.Key, e.Value)
}

// EventLog collects structured events for tests and reports. It is
// unbounded unless a limit is set, and machine-readable.
type EventLog struct {
	entries []Event
	limit   int
}

// NewEventLog creates a log. A positive limit keeps only the most recent
// limit events.
func NewEventLog(limit int) *EventLog {
	return &EventLog{limit: limit}
}

// Add records a new event.
func (l *EventLog) Add(tick int, category, key, value string, numVal float64) {
	l.entries = append(l.entries, Event{
		Tick:     tick,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = append(l.entries[:0], l.entries[len(l.entries)-l.limit:]...)
	}
}

// Entries returns all recorded events.
func (l *EventLog) Entries() []Event {
	return l.entries
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int {
	return len(l.entries)
}

// Filter returns events matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTickRange returns events within [fromTick, toTick] inclusive.
func (l *EventLog) FilterTickRange(fromTick, toTick int) []Event {
	var out []Event
	for _, e := range l.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events match the given category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent event matching category+key, or false if none.
func (l *EventLog) LastOf(category, key string) (Event, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return Event{}, false
}

// Has returns true if at least one event matches category, key, and value substring.
func (l *EventLog) Has(category, key, valueSubstr string) bool {
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Reset drops every event.
func (l *EventLog) Reset() {
	l.entries = l.entries[:0]
}

// Format returns the full log as a single string for t.Log output.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (l *EventLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range l.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
