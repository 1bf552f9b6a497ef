// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/hobbyseeds/internal/adapters/logstore"
	"github.com/okian/hobbyseeds/internal/adapters/mq/queue"
	"github.com/okian/hobbyseeds/internal/adapters/mq/worker"
	"github.com/okian/hobbyseeds/internal/domain/catalog"
	"github.com/okian/hobbyseeds/internal/domain/dedupe"
	"github.com/okian/hobbyseeds/internal/domain/diagnosis"
	"github.com/okian/hobbyseeds/internal/domain/hobbylog"
	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/sampling"
	"github.com/okian/hobbyseeds/internal/domain/stepup"
	"github.com/okian/hobbyseeds/internal/domain/tags"
	"github.com/okian/hobbyseeds/internal/domain/types"
	"github.com/okian/hobbyseeds/pkg/logger"
	"github.com/okian/hobbyseeds/pkg/metrics"
)

// Service implements the API dependencies for the hobby engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog  *catalog.Catalog
	shuffler *sampling.Shuffler
	store    *logstore.Store
	book     *hobbylog.Book
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	writer   *worker.Writer

	// Configuration
	queueSize  int
	dedupeSize int
	seed       uint64
	seeded     bool
	storeCfg   logstore.Config
	ownsStore  bool
	clock      func() time.Time

	// State
	started   bool
	cancelRun context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the capacity of the mutation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithRandomSeed makes every draw reproducible. Zero keeps the default
// entropy-seeded source.
func WithRandomSeed(seed uint64) Option {
	return func(s *Service) {
		if seed != 0 {
			s.seed = seed
			s.seeded = true
		}
	}
}

// WithCatalog serves c instead of the bundled catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithStoreConfig selects the log store backend opened on Start.
func WithStoreConfig(cfg logstore.Config) Option {
	return func(s *Service) {
		s.storeCfg = cfg
	}
}

// WithStore uses an already opened store. The caller keeps ownership.
func WithStore(st *logstore.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithClock sets the time source used to stamp log entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  256,
		dedupeSize: dedupe.DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog, opens the log store and starts the writer.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting hobby service...")

	if s.catalog == nil {
		c, err := catalog.Bundled()
		if err != nil {
			return fmt.Errorf("load bundled catalog: %w", err)
		}
		s.catalog = c
	}

	if s.store == nil {
		st, err := logstore.Open(ctx, s.storeCfg, logstore.WithLogger(s.logger.Named("logstore")))
		if err != nil {
			return fmt.Errorf("open log store: %w", err)
		}
		s.store = st
		s.ownsStore = true
	}

	bookOpts := []hobbylog.Option{hobbylog.WithLogger(s.logger.Named("hobbylog"))}
	if s.clock != nil {
		bookOpts = append(bookOpts, hobbylog.WithClock(s.clock))
	}
	s.book = hobbylog.NewBook(s.store, s.catalog.Hobbies(), bookOpts...)

	if s.seeded {
		s.shuffler = sampling.New(sampling.WithSeed(s.seed))
	} else {
		s.shuffler = sampling.New()
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.writer = worker.NewWriter(s.queue, s.book,
		worker.WithDeduper(s.deduper),
		worker.WithLogger(s.logger.Named("writer")),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelRun = cancel
	go s.writer.Run(runCtx)

	current := s.book.Load(ctx)
	metrics.UpdateQueueCapacity(s.queueSize)
	metrics.UpdateLogState(len(current.Entries), current.GreatCount, stepup.IsUnlocked(current.GreatCount))

	hobbies, stepUps := s.catalog.Len()
	s.started = true
	s.logger.Info(ctx, "hobby service started",
		logger.Int("hobbies", hobbies),
		logger.Int("stepUps", stepUps),
		logger.String("store", s.store.Backend()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("entries", len(current.Entries)),
	)
	return nil
}

// Stop drains pending mutations and releases the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping hobby service...")

	var errs []error
	if err := s.writer.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.cancelRun()

	if s.ownsStore {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log store: %w", err))
		}
		s.store = nil
		s.ownsStore = false
	}

	s.started = false
	s.logger.Info(ctx, "hobby service stopped")
	return errors.Join(errs...)
}

// SeenAndRecord reports whether a request id was already seen, recording it
// if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord forgets a request id so that it can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of remembered request ids.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Questions returns the diagnosis questionnaire.
func (s *Service) Questions() []diagnosis.Question {
	return diagnosis.Questions()
}

// Recommend filters the catalog by answer and draws count hobbies.
func (s *Service) Recommend(ctx context.Context, answer model.DiagnosisAnswer, count int, preferOutdoor bool) types.DiagnosisResult {
	candidates := diagnosis.Filter(s.catalog.Hobbies(), answer)
	metrics.RecordDiagnosis(string(answer.Energy), string(answer.Activity), len(candidates))

	mode := "random"
	if preferOutdoor {
		mode = "outdoor_first"
	}
	metrics.RecordSamplerDraw(mode)

	picked := sampling.Prioritized(s.shuffler, candidates, count, preferOutdoor)
	s.logger.Debug(ctx, "diagnosis",
		logger.String("energy", string(answer.Energy)),
		logger.Bool("goOut", answer.GoOut),
		logger.String("activityType", string(answer.Activity)),
		logger.Int("candidates", len(candidates)),
		logger.Int("picked", len(picked)),
	)
	return types.DiagnosisResult{Hobbies: picked, Candidates: len(candidates)}
}

// More draws the next page for answer, preferring hobbies whose ids are not
// in shownIDs.
func (s *Service) More(ctx context.Context, answer model.DiagnosisAnswer, shownIDs []int, count int) types.DiagnosisResult {
	candidates := diagnosis.Filter(s.catalog.Hobbies(), answer)
	metrics.RecordSamplerDraw("next_page")

	shown := make([]model.Hobby, 0, len(shownIDs))
	for _, id := range shownIDs {
		if h, ok := s.catalog.Hobby(id); ok {
			shown = append(shown, h)
		}
	}

	page := sampling.NextPage(s.shuffler, candidates, shown, count, func(h model.Hobby) int { return h.ID })
	s.logger.Debug(ctx, "next page",
		logger.Int("candidates", len(candidates)),
		logger.Int("shown", len(shown)),
		logger.Int("picked", len(page)),
	)
	return types.DiagnosisResult{Hobbies: page, Candidates: len(candidates)}
}

// Hobby looks up a base hobby by id.
func (s *Service) Hobby(id int) (model.Hobby, bool) {
	return s.catalog.Hobby(id)
}

// StepUp looks up a step-up hobby by id.
func (s *Service) StepUp(id int) (model.StepUpHobby, bool) {
	return s.catalog.StepUp(id)
}

// Enqueue hands m to the writer. It returns false when the queue is full or
// closed.
func (s *Service) Enqueue(ctx context.Context, m queue.Mutation) bool {
	ok := s.queue.Enqueue(ctx, m)
	if !ok {
		reason := queue.ErrFull
		if s.queue.IsClosed() {
			reason = queue.ErrStopped
		}
		s.logger.Warn(ctx, "mutation rejected",
			logger.String("kind", string(m.Kind)),
			logger.String("requestId", m.RequestID),
			logger.Error(reason),
		)
	}
	metrics.UpdateQueueSize(s.queue.Len(ctx))
	return ok
}

// Log returns the latest persisted log.
func (s *Service) Log(ctx context.Context) model.HobbyLog {
	return s.book.Load(ctx)
}

// Tags returns tag frequency and weighted scores over the current log.
func (s *Service) Tags(ctx context.Context) types.TagBreakdown {
	l := s.book.Load(ctx)
	return types.TagBreakdown{
		Frequency: tags.Frequency(l.Entries, s.catalog.Hobbies()),
		Scores:    tags.Scores(l.Entries, s.catalog.Hobbies()),
	}
}

// StepUps ranks step-up hobbies against the log's top tags. Nothing is
// recommended until the unlock threshold is reached.
func (s *Service) StepUps(ctx context.Context) types.StepUpRecommendations {
	l := s.book.Load(ctx)
	rec := types.StepUpRecommendations{
		Unlocked:          stepup.IsUnlocked(l.GreatCount),
		RemainingToUnlock: stepup.RemainingToUnlock(l.GreatCount),
		TopTags:           l.TopTags,
		Recommendations:   []model.MatchResult{},
	}
	if rec.Unlocked {
		rec.Recommendations = stepup.Match(s.catalog.StepUps(), l.TopTags)
		metrics.RecordStepUpMatches(len(rec.Recommendations))
	}
	return rec
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
	}

	if s.started {
		ctx := context.Background()
		queueLen := s.queue.Len(ctx)
		hobbies, stepUps := s.catalog.Len()
		current := s.book.Load(ctx)

		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()
		stats["hobbies"] = hobbies
		stats["stepUps"] = stepUps
		stats["store"] = s.store.Backend()
		stats["entries"] = len(current.Entries)
		stats["greatCount"] = current.GreatCount
		stats["unlocked"] = stepup.IsUnlocked(current.GreatCount)

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateSystemMetrics()
	}

	return stats
}
