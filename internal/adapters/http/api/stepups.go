package api

import (
	"context"
	"net/http"

	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/types"
)

// StepUpDependencies defines what the step-up endpoints need.
type StepUpDependencies interface {
	StepUps(ctx context.Context) types.StepUpRecommendations
	StepUp(id int) (model.StepUpHobby, bool)
}

// StepUpsHandler serves step-up recommendations.
type StepUpsHandler struct {
	deps StepUpDependencies
}

// NewStepUpsHandler creates a new step-ups handler.
func NewStepUpsHandler(deps StepUpDependencies) *StepUpsHandler {
	return &StepUpsHandler{deps: deps}
}

// HandleGetStepUps handles GET /stepups.
func (h *StepUpsHandler) HandleGetStepUps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.StepUps(r.Context()))
}

// HandleGetStepUp handles GET /stepups/{id}.
func (h *StepUpsHandler) HandleGetStepUp(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stepup"
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	hobby, ok := h.deps.StepUp(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, hobby)
}
