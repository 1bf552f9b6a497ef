package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/hobbyseeds/internal/adapters/mq/queue"
	"github.com/okian/hobbyseeds/internal/domain/dedupe"
	"github.com/okian/hobbyseeds/internal/domain/hobbylog"
	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/types"
	"github.com/okian/hobbyseeds/pkg/metrics"
)

// LogDependencies defines what the log endpoints need.
type LogDependencies interface {
	dedupe.Deduper
	Hobby(id int) (model.Hobby, bool)
	Enqueue(ctx context.Context, m queue.Mutation) bool
	Log(ctx context.Context) model.HobbyLog
	Tags(ctx context.Context) types.TagBreakdown
}

// entryRequest mirrors the OpenAPI schema for POST /log/entries.
type entryRequest struct {
	HobbyID   int          `json:"hobbyId" validate:"required,gt=0"`
	Rating    model.Rating `json:"rating" validate:"required,oneof=meh good great"`
	RequestID string       `json:"requestId" validate:"omitempty,max=128"`
}

type logResponse struct {
	Log     model.HobbyLog   `json:"log"`
	Summary types.LogSummary `json:"summary"`
}

func newLogResponse(l model.HobbyLog) logResponse {
	return logResponse{Log: l, Summary: hobbylog.Summarize(l)}
}

// LogHandler serves the activity log.
type LogHandler struct {
	deps LogDependencies
}

// NewLogHandler creates a new log handler.
func NewLogHandler(deps LogDependencies) *LogHandler {
	return &LogHandler{deps: deps}
}

// HandleGetLog handles GET /log.
func (h *LogHandler) HandleGetLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newLogResponse(h.deps.Log(r.Context())))
}

// HandleGetTags handles GET /log/tags.
func (h *LogHandler) HandleGetTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Tags(r.Context()))
}

// HandleAppendEntry handles POST /log/entries.
func (h *LogHandler) HandleAppendEntry(w http.ResponseWriter, r *http.Request) {
	const op = "api.append_entry"
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if _, ok := h.deps.Hobby(req.HobbyID); !ok {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, hobbylog.ErrUnknownHobby))
		return
	}

	if req.RequestID != "" && h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		metrics.RecordLogDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	m := queue.NewMutation(queue.KindAppend)
	m.HobbyID = req.HobbyID
	m.Rating = req.Rating
	m.RequestID = req.RequestID
	h.submit(w, r, op, m, http.StatusCreated)
}

// HandleDeleteEntry handles DELETE /log/entries/{index}.
func (h *LogHandler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_entry"
	index, err := pathInt(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	m := queue.NewMutation(queue.KindDelete)
	m.Index = index
	h.submit(w, r, op, m, http.StatusOK)
}

// HandleClearLog handles DELETE /log.
func (h *LogHandler) HandleClearLog(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "api.clear_log", queue.NewMutation(queue.KindClear), http.StatusOK)
}

// submit enqueues m and waits for the writer's reply.
func (h *LogHandler) submit(w http.ResponseWriter, r *http.Request, op string, m queue.Mutation, okStatus int) {
	ctx := r.Context()
	if !h.deps.Enqueue(ctx, m) {
		if m.RequestID != "" {
			h.deps.Unrecord(ctx, m.RequestID)
		}
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}

	select {
	case res := <-m.Reply:
		if res.Err != nil {
			if errors.Is(res.Err, queue.ErrStopped) && m.RequestID != "" {
				h.deps.Unrecord(ctx, m.RequestID)
			}
			status, code, kind := classify(res.Err)
			writeError(w, status, code, WrapKind(op, kind, res.Err))
			return
		}
		writeJSON(w, okStatus, newLogResponse(res.Log))
	case <-ctx.Done():
		writeError(w, http.StatusServiceUnavailable, "internal_error", WrapKind(op, ErrInternal, ctx.Err()))
	}
}

// classify maps writer failures to HTTP responses.
func classify(err error) (int, string, error) {
	switch {
	case errors.Is(err, hobbylog.ErrEntryNotFound), errors.Is(err, hobbylog.ErrUnknownHobby):
		return http.StatusNotFound, "not_found", ErrNotFound
	case errors.Is(err, hobbylog.ErrInvalidRating):
		return http.StatusBadRequest, "bad_request", ErrBadRequest
	case errors.Is(err, queue.ErrStopped):
		return http.StatusServiceUnavailable, "unavailable", ErrUnavailable
	default:
		return http.StatusInternalServerError, "internal_error", ErrInternal
	}
}
