// Package types contains view types shared by the service and its adapters.
package types

import "github.com/okian/hobbyseeds/internal/domain/model"

// LogSummary is the stats view of a hobby log.
type LogSummary struct {
	Total             int      `json:"total"`
	GreatCount        int      `json:"greatCount"`
	TopTags           []string `json:"topTags"`
	Unlocked          bool     `json:"unlocked"`
	RemainingToUnlock int      `json:"remainingToUnlock"`
}

// StepUpRecommendations is what the step-up screen shows. Recommendations
// stay empty while step-ups are locked.
type StepUpRecommendations struct {
	Unlocked          bool                `json:"unlocked"`
	RemainingToUnlock int                 `json:"remainingToUnlock"`
	TopTags           []string            `json:"topTags"`
	Recommendations   []model.MatchResult `json:"recommendations"`
}

// TagBreakdown reports raw and weighted tag statistics of the log.
type TagBreakdown struct {
	Frequency map[string]int `json:"frequency"`
	Scores    map[string]int `json:"scores"`
}

// DiagnosisResult is one page of recommended hobbies. Candidates is the size
// of the filtered list the page was drawn from.
type DiagnosisResult struct {
	Hobbies    []model.Hobby `json:"hobbies"`
	Candidates int           `json:"candidates"`
}
