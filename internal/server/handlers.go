package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	lberrors "github.com/conneroisu/leaderboard/internal/errors"
	"github.com/conneroisu/leaderboard/internal/version"
	"github.com/conneroisu/leaderboard/pkg/leaderboard"
)

// maxPayloadBytes bounds request bodies accepted by /api/preprocess.
const maxPayloadBytes = 8 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	s.componentMutex.Lock()
	cfg := s.component.FrontendConfig()
	cfg.Value = s.payload
	s.componentMutex.Unlock()

	title := cfg.Label
	if title == "" {
		title = "Leaderboard"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page(title, cfg).Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "failed to render page")
	}
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	s.componentMutex.Lock()
	cfg := s.component.FrontendConfig()
	cfg.Value = s.payload
	s.componentMutex.Unlock()

	s.writeJSON(w, r, http.StatusOK, cfg)
}

func (s *Server) handleValue(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	s.componentMutex.Lock()
	p := s.payload
	s.componentMutex.Unlock()

	s.writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	s.componentMutex.Lock()
	value := s.component.Value()
	rows, err := s.component.ProcessExample(r.Context(), value)
	s.componentMutex.Unlock()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, leaderboard.Payload{Headers: value.Names(), Data: rows})
}

// handlePreprocess decodes a payload sent by the frontend and answers with
// the re-encoded dataset, so clients can check what the server would see.
func (s *Server) handlePreprocess(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var p *leaderboard.Payload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err := dec.Decode(&p); err != nil {
		s.writeError(w, r, http.StatusBadRequest, leaderboard.ErrInvalidPayload.Detail("malformed JSON: %v", err))
		return
	}

	if p == nil {
		s.writeJSON(w, r, http.StatusOK, nil)
		return
	}

	s.componentMutex.Lock()
	ds, err := s.component.Preprocess(*p)
	s.componentMutex.Unlock()
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, leaderboard.EncodeDataset(ds))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := version.GetBuildInfo()
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   version.GetShortVersion(),
		"styling":   info.StylingVersion,
		"clients":   s.hub.Count(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), err, "failed to write response", "path", r.URL.Path)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var e *lberrors.Error
	if errors.As(err, &e) {
		resp.Code = e.Code
	}
	s.logger.Warn(r.Context(), err, "request failed", "path", r.URL.Path, "status", status)
	s.writeJSON(w, r, status, resp)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}
