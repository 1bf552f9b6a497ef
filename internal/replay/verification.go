package replay

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/okian/hobbyseeds/internal/domain/catalog"
	"github.com/okian/hobbyseeds/internal/domain/hobbylog"
	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/stepup"
	"github.com/okian/hobbyseeds/internal/domain/types"
	"github.com/okian/hobbyseeds/pkg/logger"
)

// Sentinel errors.
var (
	ErrInvalidConfig = errors.New("replay: attempts and workers must be positive")
	ErrMismatch      = errors.New("replay: service state does not match local recomputation")
)

type logBody struct {
	Log     model.HobbyLog   `json:"log"`
	Summary types.LogSummary `json:"summary"`
}

// fetchState reads the log and step-up recommendations from the service.
func fetchState(ctx context.Context, client *HTTPClient) (logBody, types.StepUpRecommendations, error) {
	var (
		body logBody
		rec  types.StepUpRecommendations
	)
	if err := client.getJSON(ctx, "/log", &body); err != nil {
		return body, rec, err
	}
	if err := client.getJSON(ctx, "/stepups", &rec); err != nil {
		return body, rec, err
	}
	return body, rec, nil
}

// verifyResults recomputes everything derived from the served entries and
// compares it with what the service reported. When the log was cleared first
// the entry and great counts must also match what was created.
func verifyResults(ctx context.Context, config *Config, cat *catalog.Catalog, body logBody, rec types.StepUpRecommendations, stats *Stats) error {
	var errs []error
	mismatch := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrMismatch}, args...)...))
	}

	served := body.Log
	local := hobbylog.Recompute(served.Entries, cat.Hobbies())
	stats.LogEntries = len(served.Entries)

	if local.GreatCount != served.GreatCount {
		mismatch("greatCount served %d, recomputed %d", served.GreatCount, local.GreatCount)
	}
	if !slices.Equal(local.TopTags, served.TopTags) {
		mismatch("topTags served %v, recomputed %v", served.TopTags, local.TopTags)
	}

	summary := body.Summary
	if summary.Total != len(served.Entries) || summary.GreatCount != served.GreatCount {
		mismatch("summary %d/%d disagrees with log %d/%d",
			summary.Total, summary.GreatCount, len(served.Entries), served.GreatCount)
	}
	if summary.Unlocked != stepup.IsUnlocked(served.GreatCount) ||
		summary.RemainingToUnlock != stepup.RemainingToUnlock(served.GreatCount) {
		mismatch("unlock state %v/%d for greatCount %d", summary.Unlocked, summary.RemainingToUnlock, served.GreatCount)
	}

	if config.Clear {
		if len(served.Entries) != stats.Created {
			mismatch("%d entries stored, %d created", len(served.Entries), stats.Created)
		}
		if served.GreatCount != stats.GreatSent {
			mismatch("greatCount %d, %d great attempts created", served.GreatCount, stats.GreatSent)
		}
	}

	if err := verifyStepUps(cat, served, rec); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logger.Get().Info(ctx, "service state verified",
		logger.Int("entries", len(served.Entries)),
		logger.Int("greatCount", served.GreatCount),
		logger.Any("topTags", served.TopTags),
		logger.Bool("unlocked", rec.Unlocked))
	return nil
}

// verifyStepUps checks the served recommendations against a local match.
func verifyStepUps(cat *catalog.Catalog, served model.HobbyLog, rec types.StepUpRecommendations) error {
	if rec.Unlocked != stepup.IsUnlocked(served.GreatCount) {
		return fmt.Errorf("%w: step-ups unlocked=%v for greatCount %d", ErrMismatch, rec.Unlocked, served.GreatCount)
	}
	want := []model.MatchResult{}
	if rec.Unlocked {
		want = stepup.Match(cat.StepUps(), served.TopTags)
	}
	if len(want) != len(rec.Recommendations) {
		return fmt.Errorf("%w: %d step-ups served, %d matched locally", ErrMismatch, len(rec.Recommendations), len(want))
	}
	for i := range want {
		got := rec.Recommendations[i]
		if known, ok := stepup.FindByID(cat.StepUps(), got.Hobby.ID); !ok || known.Name != got.Hobby.Name {
			return fmt.Errorf("%w: step-up %d served as %q is not in the catalog", ErrMismatch, got.Hobby.ID, got.Hobby.Name)
		}
		if got.Hobby.ID != want[i].Hobby.ID || got.MatchScore != want[i].MatchScore {
			return fmt.Errorf("%w: step-up #%d served %d (%d%%), matched %d (%d%%)", ErrMismatch,
				i+1, got.Hobby.ID, got.MatchScore, want[i].Hobby.ID, want[i].MatchScore)
		}
	}
	return nil
}
