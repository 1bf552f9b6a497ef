package replay

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/pkg/logger"
)

var ratings = []model.Rating{model.RatingMeh, model.RatingGood, model.RatingGreat}

// generateAttempts draws config.Attempts attempts over hobbies. Every
// config.Resend-th attempt is followed by a resend carrying the same request
// id, the way a double tap reaches the service.
func generateAttempts(ctx context.Context, config *Config, hobbies []model.Hobby, stats *Stats) []Attempt {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))

	attempts := make([]Attempt, 0, config.Attempts)
	for i := range config.Attempts {
		a := Attempt{
			HobbyID:   hobbies[rng.IntN(len(hobbies))].ID,
			Rating:    ratings[rng.IntN(len(ratings))],
			RequestID: uuid.NewString(),
		}
		attempts = append(attempts, a)
		if config.Resend > 0 && i%config.Resend == config.Resend-1 {
			attempts = append(attempts, a)
		}
	}

	stats.Generated = len(attempts)
	logger.Get().Info(ctx, "generated attempts",
		logger.Int("attempts", config.Attempts),
		logger.Int("withResends", len(attempts)),
		logger.Any("seed", seed))
	return attempts
}
