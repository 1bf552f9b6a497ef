// Package tags derives a user's taste profile from the activity log.
package tags

import (
	"slices"

	"github.com/okian/hobbyseeds/internal/domain/model"
)

// DefaultTopN is the size of the profile persisted on the log.
const DefaultTopN = 3

type tally struct {
	tag   string
	score int
	count int
	first int
}

// index maps hobby ids to hobbies. Later duplicates lose.
func index(hobbies []model.Hobby) map[int]model.Hobby {
	byID := make(map[int]model.Hobby, len(hobbies))
	for _, h := range hobbies {
		if _, ok := byID[h.ID]; !ok {
			byID[h.ID] = h
		}
	}
	return byID
}

// accumulate walks every (entry, tag) pair of resolvable entries.
func accumulate(entries []model.LogEntry, hobbies []model.Hobby) []*tally {
	byID := index(hobbies)
	seen := make(map[string]*tally)
	var order []*tally
	for _, e := range entries {
		h, ok := byID[e.HobbyID]
		if !ok {
			continue
		}
		w := e.Rating.Weight()
		for _, tag := range h.Tags {
			t, ok := seen[tag]
			if !ok {
				t = &tally{tag: tag, first: len(order)}
				seen[tag] = t
				order = append(order, t)
			}
			t.score += w
			t.count++
		}
	}
	return order
}

// TopTags returns up to topN tags ranked by rating-weighted score. Ties fall
// back to raw occurrence count and then to first appearance in the log.
// Entries whose hobby is not in hobbies are ignored.
func TopTags(entries []model.LogEntry, hobbies []model.Hobby, topN int) []string {
	if topN <= 0 {
		return []string{}
	}
	ranked := accumulate(entries, hobbies)
	slices.SortStableFunc(ranked, func(a, b *tally) int {
		if a.score != b.score {
			return b.score - a.score
		}
		if a.count != b.count {
			return b.count - a.count
		}
		return a.first - b.first
	})

	out := make([]string, 0, min(topN, len(ranked)))
	for _, t := range ranked[:min(topN, len(ranked))] {
		out = append(out, t.tag)
	}
	return out
}

// Frequency counts how many resolvable entries carry each tag, ignoring
// ratings.
func Frequency(entries []model.LogEntry, hobbies []model.Hobby) map[string]int {
	freq := make(map[string]int)
	for _, t := range accumulate(entries, hobbies) {
		freq[t.tag] = t.count
	}
	return freq
}

// Scores returns the weighted score of every tag in the log.
func Scores(entries []model.LogEntry, hobbies []model.Hobby) map[string]int {
	scores := make(map[string]int)
	for _, t := range accumulate(entries, hobbies) {
		scores[t.tag] = t.score
	}
	return scores
}

// Score is the weighted score of a single tag; 0 when the tag never appears.
func Score(tag string, entries []model.LogEntry, hobbies []model.Hobby) int {
	byID := index(hobbies)
	total := 0
	for _, e := range entries {
		if h, ok := byID[e.HobbyID]; ok && h.HasTag(tag) {
			total += e.Rating.Weight()
		}
	}
	return total
}
