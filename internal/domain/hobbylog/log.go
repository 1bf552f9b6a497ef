// Package hobbylog maintains the activity log aggregate: its entries and the
// derived great count and tag profile.
package hobbylog

import (
	"fmt"
	"slices"

	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/stepup"
	"github.com/okian/hobbyseeds/internal/domain/tags"
	"github.com/okian/hobbyseeds/internal/domain/types"
)

// Recompute builds a log from entries, deriving GreatCount and TopTags from
// scratch.
func Recompute(entries []model.LogEntry, hobbies []model.Hobby) model.HobbyLog {
	out := model.EmptyLog()
	out.Entries = append(out.Entries, entries...)
	for _, e := range entries {
		if e.Rating == model.RatingGreat {
			out.GreatCount++
		}
	}
	out.TopTags = tags.TopTags(entries, hobbies, tags.DefaultTopN)
	return out
}

// Append returns a new log with entry added last. l is not modified.
func Append(l model.HobbyLog, entry model.LogEntry, hobbies []model.Hobby) model.HobbyLog {
	entries := make([]model.LogEntry, 0, len(l.Entries)+1)
	entries = append(entries, l.Entries...)
	entries = append(entries, entry)
	return Recompute(entries, hobbies)
}

// DeleteAt returns a new log without the entry at index.
func DeleteAt(l model.HobbyLog, index int, hobbies []model.Hobby) (model.HobbyLog, error) {
	if index < 0 || index >= len(l.Entries) {
		return l, fmt.Errorf("%w: index %d of %d", ErrEntryNotFound, index, len(l.Entries))
	}
	entries := slices.Delete(slices.Clone(l.Entries), index, index+1)
	return Recompute(entries, hobbies), nil
}

// Summarize reports the stats view of l.
func Summarize(l model.HobbyLog) types.LogSummary {
	topTags := l.TopTags
	if topTags == nil {
		topTags = []string{}
	}
	return types.LogSummary{
		Total:             len(l.Entries),
		GreatCount:        l.GreatCount,
		TopTags:           topTags,
		Unlocked:          stepup.IsUnlocked(l.GreatCount),
		RemainingToUnlock: stepup.RemainingToUnlock(l.GreatCount),
	}
}
