package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"neuroscent-quiz/internal/domain"
	"neuroscent-quiz/internal/view"
)

// ResultsHandler serves built result views for shared links:
// GET /results/{testId}.
type ResultsHandler struct {
	results ResultProvider
}

func NewResultsHandler(results ResultProvider) *ResultsHandler {
	return &ResultsHandler{results: results}
}

func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	testID := strings.TrimPrefix(r.URL.Path, "/results/")
	if testID == "" || strings.Contains(testID, "/") {
		http.NotFound(w, r)
		return
	}

	result, err := h.results.GetResult(r.Context(), testID)
	if err != nil {
		writeResultError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view.Build(result))
}

func writeResultError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidResultID):
		http.Error(w, "invalid result id", http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrResultNotFound):
		http.Error(w, "result not found", http.StatusNotFound)
	default:
		http.Error(w, "could not load result", http.StatusBadGateway)
	}
}
