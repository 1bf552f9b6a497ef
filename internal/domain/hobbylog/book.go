package hobbylog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/pkg/logger"
)

// Store persists a single hobby log.
type Store interface {
	// Read returns ErrAbsent when no usable log is stored.
	Read(ctx context.Context) (model.HobbyLog, error)
	Write(ctx context.Context, l model.HobbyLog) error
	Clear(ctx context.Context) error
}

// Book applies mutations to the persisted log. Every mutation reads the latest
// stored state first, so mutations must be serialized by the caller.
type Book struct {
	store   Store
	hobbies []model.Hobby
	byID    map[int]struct{}
	now     func() time.Time
	log     logger.Logger
}

// NewBook creates a Book over store, resolving tags against hobbies.
func NewBook(store Store, hobbies []model.Hobby, opts ...Option) *Book {
	b := &Book{
		store:   store,
		hobbies: hobbies,
		byID:    make(map[int]struct{}, len(hobbies)),
		now:     time.Now,
	}
	for _, h := range hobbies {
		b.byID[h.ID] = struct{}{}
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.Named("hobbylog")
	}
	return b
}

// Load returns the persisted log. Missing or unreadable state yields an empty
// log.
func (b *Book) Load(ctx context.Context) model.HobbyLog {
	l, err := b.store.Read(ctx)
	switch {
	case err == nil:
		return normalize(l)
	case errors.Is(err, ErrAbsent):
	default:
		b.log.Warn(ctx, "failed to load hobby log", logger.Error(err))
	}
	return model.EmptyLog()
}

// latest reads the state a mutation builds on. Unlike Load it refuses to
// continue past a storage failure, so a broken read never overwrites the log.
func (b *Book) latest(ctx context.Context) (model.HobbyLog, error) {
	l, err := b.store.Read(ctx)
	if errors.Is(err, ErrAbsent) {
		return model.EmptyLog(), nil
	}
	if err != nil {
		return model.HobbyLog{}, fmt.Errorf("read hobby log: %w", err)
	}
	return normalize(l), nil
}

// Add logs an attempt of hobbyID stamped with the current time.
func (b *Book) Add(ctx context.Context, hobbyID int, rating model.Rating) (model.HobbyLog, error) {
	if !rating.Valid() {
		return model.HobbyLog{}, fmt.Errorf("%w: %q", ErrInvalidRating, rating)
	}
	if !b.Known(hobbyID) {
		return model.HobbyLog{}, fmt.Errorf("%w: %d", ErrUnknownHobby, hobbyID)
	}

	current, err := b.latest(ctx)
	if err != nil {
		return model.HobbyLog{}, err
	}
	next := Append(current, model.LogEntry{
		HobbyID:  hobbyID,
		Rating:   rating,
		LoggedAt: b.now().UTC(),
	}, b.hobbies)
	if err := b.store.Write(ctx, next); err != nil {
		return model.HobbyLog{}, fmt.Errorf("write hobby log: %w", err)
	}

	b.log.Debug(ctx, "entry added",
		logger.Int("hobbyId", hobbyID),
		logger.String("rating", string(rating)),
		logger.Int("greatCount", next.GreatCount))
	return next, nil
}

// Delete removes the entry at index.
func (b *Book) Delete(ctx context.Context, index int) (model.HobbyLog, error) {
	current, err := b.latest(ctx)
	if err != nil {
		return model.HobbyLog{}, err
	}
	next, err := DeleteAt(current, index, b.hobbies)
	if err != nil {
		return model.HobbyLog{}, err
	}
	if err := b.store.Write(ctx, next); err != nil {
		return model.HobbyLog{}, fmt.Errorf("write hobby log: %w", err)
	}

	b.log.Debug(ctx, "entry deleted", logger.Int("index", index), logger.Int("remaining", len(next.Entries)))
	return next, nil
}

// Clear drops the persisted log.
func (b *Book) Clear(ctx context.Context) error {
	if err := b.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear hobby log: %w", err)
	}
	b.log.Info(ctx, "hobby log cleared")
	return nil
}

// Known reports whether hobbyID is in the catalog.
func (b *Book) Known(hobbyID int) bool {
	_, ok := b.byID[hobbyID]
	return ok
}

// Hobbies returns the catalog the Book resolves tags against.
func (b *Book) Hobbies() []model.Hobby { return b.hobbies }

// normalize replaces nil slices so callers always encode arrays.
func normalize(l model.HobbyLog) model.HobbyLog {
	if l.Entries == nil {
		l.Entries = []model.LogEntry{}
	}
	if l.TopTags == nil {
		l.TopTags = []string{}
	}
	return l
}
