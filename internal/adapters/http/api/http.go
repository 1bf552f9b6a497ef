// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/okian/hobbyseeds/internal/adapters/mq/queue"
	"github.com/okian/hobbyseeds/internal/domain/dedupe"
	"github.com/okian/hobbyseeds/internal/domain/diagnosis"
	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/types"
)

const (
	defaultPerPage = 4
	maxBodyBytes   = 64 << 10
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper
	StatsProvider

	Questions() []diagnosis.Question
	Recommend(ctx context.Context, answer model.DiagnosisAnswer, count int, preferOutdoor bool) types.DiagnosisResult
	More(ctx context.Context, answer model.DiagnosisAnswer, shownIDs []int, count int) types.DiagnosisResult

	Hobby(id int) (model.Hobby, bool)
	StepUp(id int) (model.StepUpHobby, bool)

	// Enqueue hands a mutation to the log writer. Returns false on backpressure.
	Enqueue(ctx context.Context, m queue.Mutation) bool
	Log(ctx context.Context) model.HobbyLog
	Tags(ctx context.Context) types.TagBreakdown
	StepUps(ctx context.Context) types.StepUpRecommendations
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	diagnosisHandler *DiagnosisHandler
	hobbiesHandler   *HobbiesHandler
	logHandler       *LogHandler
	stepUpsHandler   *StepUpsHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverOptions)

type serverOptions struct {
	perPage int
}

// WithPerPage sets how many hobbies a diagnosis returns when the request
// does not say.
func WithPerPage(n int) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.perPage = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := serverOptions{perPage: defaultPerPage}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		diagnosisHandler: NewDiagnosisHandler(deps, o.perPage),
		hobbiesHandler:   NewHobbiesHandler(deps),
		logHandler:       NewLogHandler(deps),
		stepUpsHandler:   NewStepUpsHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/diagnosis", func(r chi.Router) {
		r.Get("/questions", MetricsMiddleware(s.diagnosisHandler.HandleQuestions, "diagnosis_questions"))
		r.Post("/", MetricsMiddleware(s.diagnosisHandler.HandleDiagnose, "diagnosis"))
		r.Post("/more", MetricsMiddleware(s.diagnosisHandler.HandleMore, "diagnosis_more"))
	})

	r.Get("/hobbies/{id}", MetricsMiddleware(s.hobbiesHandler.HandleGetHobby, "hobby"))

	r.Route("/log", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.logHandler.HandleGetLog, "log"))
		r.Delete("/", MetricsMiddleware(s.logHandler.HandleClearLog, "log_clear"))
		r.Get("/tags", MetricsMiddleware(s.logHandler.HandleGetTags, "log_tags"))
		r.Post("/entries", MetricsMiddleware(s.logHandler.HandleAppendEntry, "log_append"))
		r.Delete("/entries/{index}", MetricsMiddleware(s.logHandler.HandleDeleteEntry, "log_delete"))
	})

	r.Route("/stepups", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.stepUpsHandler.HandleGetStepUps, "stepups"))
		r.Get("/{id}", MetricsMiddleware(s.stepUpsHandler.HandleGetStepUp, "stepup"))
	})
}

// Router returns a chi router with the middleware stack and all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recoverer)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "bad_request", ErrBadRequest)
	})
	s.Register(r)
	return r
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeBody reads a single JSON document and validates it.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return validateRequest(v)
}
