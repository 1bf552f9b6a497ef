package api

import (
	"context"
	"net/http"

	"github.com/okian/hobbyseeds/internal/domain/diagnosis"
	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/types"
)

const maxPageSize = 50

// DiagnosisDependencies defines what the diagnosis endpoints need.
type DiagnosisDependencies interface {
	Questions() []diagnosis.Question
	Recommend(ctx context.Context, answer model.DiagnosisAnswer, count int, preferOutdoor bool) types.DiagnosisResult
	More(ctx context.Context, answer model.DiagnosisAnswer, shownIDs []int, count int) types.DiagnosisResult
}

// answerRequest mirrors the OpenAPI schema for a diagnosis answer. GoOut is a
// pointer so that an explicit false passes the required check.
type answerRequest struct {
	Energy   model.Energy   `json:"energy" validate:"required,oneof=low medium high"`
	GoOut    *bool          `json:"goOut" validate:"required"`
	Activity model.Activity `json:"activityType" validate:"required,oneof=passive active"`
}

func (a answerRequest) answer() model.DiagnosisAnswer {
	return model.DiagnosisAnswer{Energy: a.Energy, GoOut: *a.GoOut, Activity: a.Activity}
}

type diagnoseRequest struct {
	answerRequest
	Count         int  `json:"count" validate:"gte=0,lte=50"`
	PreferOutdoor bool `json:"preferOutdoor"`
}

type moreRequest struct {
	Answer   answerRequest `json:"answer"`
	ShownIDs []int         `json:"shownIds" validate:"dive,gt=0"`
	Count    int           `json:"count" validate:"gte=0,lte=50"`
}

// DiagnosisHandler serves the questionnaire and its recommendations.
type DiagnosisHandler struct {
	deps    DiagnosisDependencies
	perPage int
}

// NewDiagnosisHandler creates a diagnosis handler returning perPage hobbies
// unless a request asks for another count.
func NewDiagnosisHandler(deps DiagnosisDependencies, perPage int) *DiagnosisHandler {
	if perPage <= 0 || perPage > maxPageSize {
		perPage = defaultPerPage
	}
	return &DiagnosisHandler{deps: deps, perPage: perPage}
}

// HandleQuestions handles GET /diagnosis/questions.
func (h *DiagnosisHandler) HandleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Questions())
}

// HandleDiagnose handles POST /diagnosis.
func (h *DiagnosisHandler) HandleDiagnose(w http.ResponseWriter, r *http.Request) {
	const op = "api.diagnose"
	var req diagnoseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res := h.deps.Recommend(r.Context(), req.answer(), h.count(req.Count), req.PreferOutdoor)
	writeJSON(w, http.StatusOK, res)
}

// HandleMore handles POST /diagnosis/more.
func (h *DiagnosisHandler) HandleMore(w http.ResponseWriter, r *http.Request) {
	const op = "api.diagnose_more"
	var req moreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res := h.deps.More(r.Context(), req.Answer.answer(), req.ShownIDs, h.count(req.Count))
	writeJSON(w, http.StatusOK, res)
}

func (h *DiagnosisHandler) count(requested int) int {
	if requested > 0 {
		return requested
	}
	return h.perPage
}
