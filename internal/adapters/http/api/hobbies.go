package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/hobbyseeds/internal/domain/model"
)

// HobbyDependencies defines catalog lookups.
type HobbyDependencies interface {
	Hobby(id int) (model.Hobby, bool)
}

// HobbiesHandler serves base catalog entries.
type HobbiesHandler struct {
	deps HobbyDependencies
}

// NewHobbiesHandler creates a new hobbies handler.
func NewHobbiesHandler(deps HobbyDependencies) *HobbiesHandler {
	return &HobbiesHandler{deps: deps}
}

// HandleGetHobby handles GET /hobbies/{id}.
func (h *HobbiesHandler) HandleGetHobby(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_hobby"
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	hobby, ok := h.deps.Hobby(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, hobby)
}

// pathInt parses an integer URL parameter.
func pathInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errors.New("missing " + name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name + ": " + raw)
	}
	return n, nil
}
