package adaptive

import "time"

// appendHistory appends a snapshot and drops anything older than the
// retention window, measured from the new entry's timestamp. History stays
// chronologically ordered because updates arrive one at a time.
func appendHistory(history []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	history = append(history, entry)
	cutoff := entry.TS.Add(-HistoryRetention)
	kept := history[:0]
	for _, h := range history {
		if !h.TS.Before(cutoff) {
			kept = append(kept, h)
		}
	}
	return kept
}

// trendOver computes the skill delta across a rolling window: last
// in-window snapshot minus the first. Windows with fewer than two points
// carry no trend.
func trendOver(history []HistoryEntry, window time.Duration, now time.Time) float64 {
	cutoff := now.Add(-window)
	var inWindow []HistoryEntry
	for _, h := range history {
		if !h.TS.Before(cutoff) {
			inWindow = append(inWindow, h)
		}
	}
	if len(inWindow) < 2 {
		return 0
	}
	return inWindow[len(inWindow)-1].SkillLevel - inWindow[0].SkillLevel
}
