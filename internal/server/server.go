// Package server exposes the ad copy generator over HTTP. Handlers stay
// thin: decode, call the app, encode.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"adsmith/internal/adcopy"
	"adsmith/internal/app"
	"adsmith/internal/usertoken"
	"adsmith/internal/util"
	"adsmith/pkg/domain"
)

// Config wires required dependencies for the HTTP server. TokenVerifier
// is optional; without it every request is treated as anonymous and the
// remote saved-ad operations are unavailable.
type Config struct {
	App           *app.App
	TokenVerifier *usertoken.Verifier
}

// Server exposes the generator, form, history and curation endpoints.
type Server struct {
	app           *app.App
	tokenVerifier *usertoken.Verifier
	mux           *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:           cfg.App,
		tokenVerifier: cfg.TokenVerifier,
		mux:           http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("adsmith", util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// generation + form
	s.mux.HandleFunc("/api/generate", s.handleGenerate)
	s.mux.HandleFunc("/api/form", s.handleForm)
	s.mux.HandleFunc("/api/form/reset", s.handleFormReset)
	s.mux.HandleFunc("/api/form/validate", s.handleFormValidate)
	s.mux.HandleFunc("/api/form/keywords", s.handleFormKeywords)
	s.mux.HandleFunc("/api/form/keywords/", s.handleFormKeywordByValue)

	// history + selection sets + export
	s.mux.HandleFunc("/api/history", s.handleHistory)
	s.mux.HandleFunc("/api/history/", s.handleHistoryByID)
	s.mux.HandleFunc("/api/history/export", s.handleExport)
	s.mux.HandleFunc("/api/selection-sets", s.handleSelectionSets)
	s.mux.HandleFunc("/api/selection-sets/import", s.handleSelectionSetImport)
	s.mux.HandleFunc("/api/selection-sets/", s.handleSelectionSetByID)

	// curation
	s.mux.HandleFunc("/api/saved-ads", s.handleSavedAds)
	s.mux.HandleFunc("/api/saved-ads/sync", s.handleSavedAdsSync)
	s.mux.HandleFunc("/api/saved-ads/", s.handleSavedAdByID)
	s.mux.HandleFunc("/api/liked-headlines", s.handleLikedHeadlines)
	s.mux.HandleFunc("/api/liked-headlines/toggle", s.handleToggleLiked)

	s.mux.HandleFunc("/api/templates", s.handleTemplates)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// generateResponse mirrors what the frontend reads after a generation.
type generateResponse struct {
	Success     bool             `json:"success"`
	GeneratedAd *generatedAdBody `json:"generatedAd,omitempty"`
	Error       string           `json:"error,omitempty"`
}

type generatedAdBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Variations  []string `json:"variations"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Connectivity probe used by the frontend on mount.
		writeJSON(w, http.StatusOK, map[string]string{"message": "Generation API endpoint is working"})
	case http.MethodPost:
		s.handleGeneratePost(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleGeneratePost(w http.ResponseWriter, r *http.Request) {
	sub := s.app.Form().Submission()
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&sub); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, generateResponse{Success: false, Error: "invalid JSON body"})
		return
	}

	content, err := s.app.Generate(r.Context(), sub)
	if err != nil {
		var mfe *app.MissingFieldsError
		switch {
		case errors.As(err, &mfe):
			writeJSON(w, http.StatusBadRequest, generateResponse{Success: false, Error: mfe.Error()})
		case errors.Is(err, adcopy.ErrNoContent):
			writeJSON(w, http.StatusInternalServerError, generateResponse{Success: false, Error: "No ad content was generated. Please try again."})
		default:
			writeJSON(w, http.StatusInternalServerError, generateResponse{Success: false, Error: "Failed to generate ad copy. Please try again."})
		}
		return
	}

	variations := content.Variations
	if variations == nil {
		variations = []string{}
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Success: true,
		GeneratedAd: &generatedAdBody{
			Title:       content.Title,
			Description: content.Description,
			Variations:  variations,
		},
	})
}

type fieldPatch struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.app.Form().Snapshot())
	case http.MethodPatch:
		var patch fieldPatch
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.app.Form().SetField(patch.Field, patch.Value); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, s.app.Form().Snapshot())
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleFormReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.app.Form().Reset()
	writeJSON(w, http.StatusOK, s.app.Form().Snapshot())
}

// handleFormValidate runs field-level validation over the current
// submission, optionally overlaid with a posted partial body, without
// triggering a generation.
func (s *Server) handleFormValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sub := s.app.Form().Submission()
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&sub); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	findings := adcopy.Validate(sub)
	if findings == nil {
		findings = []domain.ValidationError{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  len(findings) == 0,
		"errors": findings,
	})
}

func (s *Server) handleFormKeywords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Keyword string `json:"keyword"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.Form().AddKeyword(req.Keyword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.app.Form().Snapshot())
}

func (s *Server) handleFormKeywordByValue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	keyword := strings.TrimPrefix(r.URL.Path, "/api/form/keywords/")
	if keyword == "" {
		notFound(w, "not found")
		return
	}
	if !s.app.Form().RemoveKeyword(keyword) {
		notFound(w, "keyword not found")
		return
	}
	writeJSON(w, http.StatusOK, s.app.Form().Snapshot())
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.app.Templates()})
}

// userID resolves the optional bearer identity. A missing header is
// anonymous; a present but invalid token is an error.
func (s *Server) userID(r *http.Request) (string, error) {
	token, ok := bearerToken(r)
	if !ok {
		return "", nil
	}
	if s.tokenVerifier == nil {
		return "", errors.New("token verification not configured")
	}
	return s.tokenVerifier.VerifySubject(token)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotFound, msg)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}
