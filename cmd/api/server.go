package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"socialforge/internal/envelope"
	"socialforge/internal/history"
	"socialforge/internal/llm"
	"socialforge/internal/pipeline"
	"socialforge/internal/util/jsonutil"
)

// apiServer wires the pipeline and archive into HTTP handlers.
type apiServer struct {
	pipe    *pipeline.Pipeline
	archive *history.Archive
}

func newAPIServer(pipe *pipeline.Pipeline, archive *history.Archive) *apiServer {
	return &apiServer{pipe: pipe, archive: archive}
}

func buildMux(s *apiServer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistoryEntry)
	return mux
}

type generateRequest struct {
	Text     string `json:"text"`
	Audio    string `json:"audio"`
	Image    string `json:"image"`
	MIMEType string `json:"mimeType"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (s *apiServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in generateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo della richiesta non valido.", err.Error())
		return
	}

	raw, err := decodeRaw(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Dati binari non decodificabili.", err.Error())
		return
	}

	pkg, err := s.pipe.Generate(r.Context(), raw)
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func decodeRaw(in generateRequest) (envelope.Raw, error) {
	raw := envelope.Raw{Text: in.Text, MIMEType: in.MIMEType}
	switch {
	case in.Audio != "":
		data, err := base64.StdEncoding.DecodeString(in.Audio)
		if err != nil {
			return envelope.Raw{}, err
		}
		raw.Data = data
	case in.Image != "":
		data, err := base64.StdEncoding.DecodeString(in.Image)
		if err != nil {
			return envelope.Raw{}, err
		}
		raw.Data = data
		raw.Photo = true
		if raw.MIMEType == "" {
			raw.MIMEType = "image/jpeg"
		}
	}
	return raw, nil
}

// writeGenerateError maps pipeline failures to the outward contract:
// 400 for no-input, 429 for upstream rate limiting, 500 for everything else.
// Rate limiting gets its own message so the caller can say "try again
// shortly" instead of a generic error.
func writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, envelope.ErrNoInput):
		writeError(w, http.StatusBadRequest, "Nessun input fornito", err.Error())
	case errors.Is(err, llm.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Troppe richieste (Rate Limit). Attendi qualche minuto.", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Errore nella generazione del contenuto.", err.Error())
	}
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.archive.Entries())
	case http.MethodDelete:
		if err := s.archive.Clear(r.Context()); err != nil {
			log.Printf("api: history clear persist failed: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *apiServer) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	if err := s.archive.Delete(r.Context(), id); err != nil {
		log.Printf("api: history delete persist failed: %v", err)
	}
	// Deletion is idempotent: an absent id still answers 204.
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}
