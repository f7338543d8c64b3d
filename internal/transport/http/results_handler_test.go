package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"neuroscent-quiz/internal/view"
)

func TestResultsHandlerServesView(t *testing.T) {
	store := newResultStore()
	store.Put(sampleResult())
	handler := NewResultsHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/results/test-abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rendered view.ResultView
	if err := json.NewDecoder(rec.Body).Decode(&rendered); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if rendered.TestID != "test-abc" {
		t.Fatalf("unexpected view: %+v", rendered)
	}
	if len(rendered.Matches) != 1 || !rendered.Matches[0].IsTopMatch {
		t.Fatalf("expected a single top match, got %+v", rendered.Matches)
	}
	if rendered.Chart == nil || len(rendered.Chart.Axes) != 7 {
		t.Fatalf("expected a seven-axis chart, got %+v", rendered.Chart)
	}
}

func TestResultsHandlerMissingResult(t *testing.T) {
	handler := NewResultsHandler(newResultStore())

	req := httptest.NewRequest(http.MethodGet, "/results/unknown", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestResultsHandlerRejectsBarePath(t *testing.T) {
	handler := NewResultsHandler(newResultStore())

	req := httptest.NewRequest(http.MethodGet, "/results/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
