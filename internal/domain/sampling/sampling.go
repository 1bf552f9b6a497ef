// Package sampling draws bounded, randomized, non-repeating subsets of
// candidate lists.
//
// All randomness flows through a Shuffler so tests can pin the output with
// a fixed seed while production uses an entropy-seeded source.
package sampling

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"slices"
	"sync"
)

// pcgIncrement is mixed into single-seed PCG construction.
const pcgIncrement = 0x9e3779b97f4a7c15

// Shuffler is a concurrency-safe source of Fisher-Yates permutations.
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Option applies a configuration option to the Shuffler.
type Option func(*Shuffler)

// WithSeed makes the shuffler deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Shuffler) {
		s.rng = rand.New(rand.NewPCG(seed, seed^pcgIncrement)) //nolint:gosec // deterministic seed for reproducible output
	}
}

// WithSource uses src as the random source.
func WithSource(src rand.Source) Option {
	return func(s *Shuffler) {
		if src != nil {
			s.rng = rand.New(src) //nolint:gosec // caller-provided source
		}
	}
}

// New creates a Shuffler seeded from the operating system's entropy pool
// unless an option overrides the source.
func New(opts ...Option) *Shuffler {
	s := &Shuffler{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(entropySeed(), entropySeed())) //nolint:gosec // seeded from crypto/rand
	}
	return s
}

func entropySeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(b[:])
}

// permute runs an unbiased Fisher-Yates pass over n positions.
func (s *Shuffler) permute(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		swap(i, j)
	}
}

// Random returns min(count, len(items)) items drawn without replacement in
// random order. items is never modified. count <= 0 or no items yields an
// empty slice.
func Random[T any](s *Shuffler, items []T, count int) []T {
	if count <= 0 || len(items) == 0 {
		return []T{}
	}
	shuffled := slices.Clone(items)
	s.permute(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return slices.Clip(shuffled[:min(count, len(shuffled))])
}

// Placed is anything that knows whether it can be done indoors.
type Placed interface {
	IsIndoor() bool
}

// Prioritized behaves like Random unless preferOutdoor is set. Then outdoor
// items are drawn first and any shortfall is filled from indoor items, with
// outdoor items leading the result.
func Prioritized[T Placed](s *Shuffler, items []T, count int, preferOutdoor bool) []T {
	if !preferOutdoor {
		return Random(s, items, count)
	}

	var outdoor, indoor []T
	for _, item := range items {
		if item.IsIndoor() {
			indoor = append(indoor, item)
		} else {
			outdoor = append(outdoor, item)
		}
	}

	picked := Random(s, outdoor, count)
	if shortfall := count - len(picked); shortfall > 0 {
		picked = append(picked, Random(s, indoor, shortfall)...)
	}
	return picked
}

// NextPage picks the next page of a "show more" flow. Unseen items are
// preferred; when fewer than a page remain, all of them are shown and the
// page is topped up from already-shown items; when everything has been seen,
// the whole list is reshuffled.
func NextPage[T any, K comparable](s *Shuffler, all, shown []T, perPage int, key func(T) K) []T {
	if perPage <= 0 || len(all) == 0 {
		return []T{}
	}

	shownKeys := make(map[K]struct{}, len(shown))
	for _, item := range shown {
		shownKeys[key(item)] = struct{}{}
	}

	var remaining, seen []T
	for _, item := range all {
		if _, ok := shownKeys[key(item)]; ok {
			seen = append(seen, item)
		} else {
			remaining = append(remaining, item)
		}
	}

	switch {
	case len(remaining) >= perPage:
		return Random(s, remaining, perPage)
	case len(remaining) > 0:
		page := slices.Clone(remaining)
		return append(page, Random(s, seen, perPage-len(remaining))...)
	default:
		return Random(s, all, perPage)
	}
}
