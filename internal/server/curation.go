package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"adsmith/internal/addoc"
	"adsmith/internal/saved"
	"adsmith/pkg/domain"
)

func (s *Server) handleSavedAds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// A signed-in read refreshes the cache from the remote
		// collection first; anonymous reads serve the cache as-is.
		userID, err := s.userID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if userID != "" {
			if err := s.app.Saved().LoadUserAds(r.Context(), userID); err != nil {
				writeError(w, http.StatusInternalServerError, "failed to load saved ads")
				return
			}
		}
		ads := s.app.Saved().List()
		writeJSON(w, http.StatusOK, map[string]any{"items": ads, "count": len(ads)})
	case http.MethodPost:
		s.handleSaveAd(w, r)
	case http.MethodDelete:
		// Bulk clear empties the local cache only; remote documents
		// are removed one at a time through the id route.
		s.app.Saved().ClearAll()
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSaveAd(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var ad domain.SavedAd
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&ad); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(ad.Headline) == "" {
		writeError(w, http.StatusBadRequest, "headline is required")
		return
	}
	stored, err := s.app.Saved().Add(r.Context(), userID, ad)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save ad")
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleSavedAdByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/saved-ads/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w, "not found")
		return
	}
	userID, err := s.userID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := s.app.Saved().Remove(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, saved.ErrSignInRequired):
			writeError(w, http.StatusUnauthorized, "sign-in required")
		case errors.Is(err, addoc.ErrNotFound):
			notFound(w, "saved ad not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to remove saved ad")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSavedAdsSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	userID, err := s.userID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := s.app.Saved().LoadUserAds(r.Context(), userID); err != nil {
		if errors.Is(err, saved.ErrSignInRequired) {
			writeError(w, http.StatusUnauthorized, "sign-in required")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load saved ads")
		return
	}
	ads := s.app.Saved().List()
	writeJSON(w, http.StatusOK, map[string]any{"items": ads, "count": len(ads)})
}

func (s *Server) handleLikedHeadlines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	liked := s.app.Saved().LikedHeadlines()
	writeJSON(w, http.StatusOK, map[string]any{"items": liked, "count": len(liked)})
}

func (s *Server) handleToggleLiked(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Headline    string `json:"headline"`
		PrimaryText string `json:"primaryText"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Headline) == "" {
		writeError(w, http.StatusBadRequest, "headline is required")
		return
	}
	liked := s.app.Saved().ToggleLiked(req.Headline, req.PrimaryText)
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}
