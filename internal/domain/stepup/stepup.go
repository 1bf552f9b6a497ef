// Package stepup gates and ranks the second tier of hobbies.
package stepup

import (
	"slices"

	"github.com/okian/hobbyseeds/internal/domain/model"
)

// UnlockThreshold is the number of great ratings that unlocks step-ups.
const UnlockThreshold = 3

// IsUnlocked reports whether greatCount reaches the unlock threshold.
func IsUnlocked(greatCount int) bool {
	return greatCount >= UnlockThreshold
}

// RemainingToUnlock returns how many more great ratings are needed, never
// less than zero.
func RemainingToUnlock(greatCount int) int {
	return max(0, UnlockThreshold-greatCount)
}

// Match scores every step-up hobby whose match tags intersect userTopTags.
// The score is the share of the user's tags covered, in percent rounded half
// up. Results are ordered by score, then by number of matched tags; equal
// results keep catalog order.
func Match(catalog []model.StepUpHobby, userTopTags []string) []model.MatchResult {
	results := []model.MatchResult{}
	if len(userTopTags) == 0 {
		return results
	}

	for _, hobby := range catalog {
		var matched []string
		for _, tag := range hobby.MatchTags {
			if slices.Contains(userTopTags, tag) {
				matched = append(matched, tag)
			}
		}
		if len(matched) == 0 {
			continue
		}
		results = append(results, model.MatchResult{
			Hobby:       hobby,
			MatchScore:  percent(len(matched), len(userTopTags)),
			MatchedTags: matched,
		})
	}

	slices.SortStableFunc(results, func(a, b model.MatchResult) int {
		if a.MatchScore != b.MatchScore {
			return b.MatchScore - a.MatchScore
		}
		return len(b.MatchedTags) - len(a.MatchedTags)
	})
	return results
}

// percent computes round(100*part/whole) with halves rounded up.
func percent(part, whole int) int {
	return (200*part + whole) / (2 * whole)
}

// FindByID returns the step-up hobby with the given id.
func FindByID(catalog []model.StepUpHobby, id int) (model.StepUpHobby, bool) {
	i := slices.IndexFunc(catalog, func(h model.StepUpHobby) bool { return h.ID == id })
	if i < 0 {
		return model.StepUpHobby{}, false
	}
	return catalog[i], true
}
