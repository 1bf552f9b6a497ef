package model

import "time"

// LogEntry records one attempt of a hobby. HobbyID may point at a hobby that is
// no longer in the catalog.
type LogEntry struct {
	HobbyID  int       `json:"hobbyId"`
	Rating   Rating    `json:"rating"`
	LoggedAt time.Time `json:"loggedAt"`
}

// HobbyLog is the persisted activity log. GreatCount and TopTags are derived
// from Entries and must be recomputed whenever Entries changes.
type HobbyLog struct {
	Entries    []LogEntry `json:"entries"`
	GreatCount int        `json:"greatCount"`
	TopTags    []string   `json:"topTags"`
}

// EmptyLog returns a log with no entries and non-nil slices.
func EmptyLog() HobbyLog {
	return HobbyLog{
		Entries: []LogEntry{},
		TopTags: []string{},
	}
}
