package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"socialforge/internal/history"
	"socialforge/internal/llm"
	"socialforge/internal/pipeline"
	"socialforge/internal/types"
)

func newTestServer(t *testing.T, client llm.Client) (*apiServer, *history.Archive) {
	t.Helper()
	archive := history.NewArchive(history.NewFileStorage(filepath.Join(t.TempDir(), "history.json")))
	pipe := pipeline.New(client, archive, pipeline.Options{})
	return newAPIServer(pipe, archive), archive
}

func postGenerate(t *testing.T, s *apiServer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	buildMux(s).ServeHTTP(rec, req)
	return rec
}

func TestGenerateEndpointSuccess(t *testing.T) {
	s, archive := newTestServer(t, &llm.FakeClient{})

	rec := postGenerate(t, s, `{"text": "Oggi in seduta è emerso un tema di resa."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var pkg types.ContentPackage
	if err := json.Unmarshal(rec.Body.Bytes(), &pkg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !pkg.Complete() {
		t.Fatalf("expected all four channels in %s", rec.Body.String())
	}
	if archive.Len() != 1 {
		t.Fatalf("archive length = %d, want 1", archive.Len())
	}
}

func TestGenerateEndpointNoInput(t *testing.T) {
	s, archive := newTestServer(t, &llm.FakeClient{})

	rec := postGenerate(t, s, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error != "Nessun input fornito" {
		t.Fatalf("error = %q", resp.Error)
	}
	if archive.Len() != 0 {
		t.Fatalf("archive must stay untouched, length = %d", archive.Len())
	}
}

func TestGenerateEndpointRateLimited(t *testing.T) {
	s, _ := newTestServer(t, &llm.FakeClient{Err: llm.ErrRateLimited})

	rec := postGenerate(t, s, `{"text": "x"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Troppe richieste") {
		t.Fatalf("rate-limit message missing from %s", rec.Body.String())
	}
}

func TestGenerateEndpointUpstreamFailure(t *testing.T) {
	s, _ := newTestServer(t, &llm.FakeClient{Err: &llm.ServiceError{Status: 503, Message: "overloaded"}})

	rec := postGenerate(t, s, `{"text": "x"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestGenerateEndpointBadBase64(t *testing.T) {
	s, _ := newTestServer(t, &llm.FakeClient{})

	rec := postGenerate(t, s, `{"audio": "!!! not base64 !!!"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	s, archive := newTestServer(t, &llm.FakeClient{})
	mux := buildMux(s)

	postGenerate(t, s, `{"text": "prima"}`)
	postGenerate(t, s, `{"text": "seconda"}`)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var entries []types.HistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(entries) != 2 || entries[0].InputSummary != "seconda" {
		t.Fatalf("unexpected list: %+v", entries)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history/"+entries[0].ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if archive.Len() != 1 {
		t.Fatalf("length after delete = %d, want 1", archive.Len())
	}

	// Deleting the same id again is a no-op, not an error.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history/"+entries[0].ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("repeat delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}
	if archive.Len() != 0 {
		t.Fatalf("length after clear = %d, want 0", archive.Len())
	}
}
