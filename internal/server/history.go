package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adsmith/internal/export"
	"adsmith/internal/history"
	"adsmith/pkg/domain"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := filterFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.app.History().SetFilter(filter)
		entries := s.app.History().Filtered()
		writeJSON(w, http.StatusOK, map[string]any{
			"items": entries,
			"count": len(entries),
			"total": len(s.app.History().Entries()),
		})
	case http.MethodDelete:
		s.app.History().Clear()
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleHistoryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		entry, ok := s.app.History().Get(id)
		if !ok {
			notFound(w, "history entry not found")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	case http.MethodDelete:
		if !s.app.History().Remove(id) {
			notFound(w, "history entry not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

// filterFromQuery maps query parameters onto a history filter. Dates are
// inclusive calendar days in UTC.
func filterFromQuery(r *http.Request) (history.Filter, error) {
	q := r.URL.Query()
	f := history.Filter{
		Search:    strings.TrimSpace(q.Get("search")),
		Tone:      history.ToneAll,
		SortField: history.SortByTimestamp,
		SortOrder: history.SortDesc,
	}
	if tone := strings.TrimSpace(q.Get("tone")); tone != "" && tone != history.ToneAll {
		parsed, ok := domain.ParseTone(tone)
		if !ok {
			return f, fmt.Errorf("unknown tone %q", tone)
		}
		f.Tone = string(parsed)
	}
	if raw := strings.TrimSpace(q.Get("startDate")); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return f, fmt.Errorf("invalid startDate %q", raw)
		}
		f.Start = &t
	}
	if raw := strings.TrimSpace(q.Get("endDate")); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return f, fmt.Errorf("invalid endDate %q", raw)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.End = &end
	}
	switch field := history.SortField(q.Get("sortField")); field {
	case "", history.SortByTimestamp:
	case history.SortByTitle, history.SortByTone:
		f.SortField = field
	default:
		return f, fmt.Errorf("unknown sortField %q", field)
	}
	switch order := history.SortOrder(q.Get("sortOrder")); order {
	case "", history.SortDesc:
	case history.SortAsc:
		f.SortOrder = order
	default:
		return f, fmt.Errorf("unknown sortOrder %q", order)
	}
	return f, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	// Without an ids selection the currently filtered projection is
	// exported. Unknown ids are skipped, matching selection-set loads.
	var entries []domain.HistoryEntry
	if raw := strings.TrimSpace(r.URL.Query().Get("ids")); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if entry, ok := s.app.History().Get(strings.TrimSpace(id)); ok {
				entries = append(entries, entry)
			}
		}
	} else {
		entries = s.app.History().Filtered()
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "pdf"
	}
	var (
		payload     []byte
		err         error
		contentType string
		ext         string
	)
	switch format {
	case "pdf":
		payload, err = export.ToPDF(entries)
		contentType, ext = "application/pdf", "pdf"
	case "csv":
		payload, err = export.ToCSV(entries)
		contentType, ext = "text/csv", "csv"
	case "txt", "text":
		payload, ext = export.ToText(entries), "txt"
		contentType = "text/plain; charset=utf-8"
	case "xlsx":
		payload, err = export.ToXLSX(entries)
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", format))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := "ad-history-" + time.Now().UTC().Format("2006-01-02") + "." + ext
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

type selectionSetRequest struct {
	Name  string   `json:"name"`
	AdIDs []string `json:"adIds"`
}

func (s *Server) handleSelectionSets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sets := s.app.History().SelectionSets()
		writeJSON(w, http.StatusOK, map[string]any{"items": sets, "count": len(sets)})
	case http.MethodPost:
		var req selectionSetRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		set := s.app.History().AddSelectionSet(req.Name, req.AdIDs)
		writeJSON(w, http.StatusCreated, set)
	default:
		methodNotAllowed(w)
	}
}

// /api/selection-sets/{id} or /api/selection-sets/{id}/load
func (s *Server) handleSelectionSetByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/selection-sets/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		notFound(w, "not found")
		return
	}
	if len(parts) == 2 {
		if parts[1] != "load" {
			notFound(w, "not found")
			return
		}
		s.handleSelectionSetLoad(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleSelectionSetLoad(w, r, id)
	case http.MethodPut:
		var req selectionSetRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated := domain.SelectionSet{Name: req.Name, AdIDs: req.AdIDs}
		if !s.app.History().UpdateSelectionSet(id, updated) {
			notFound(w, "selection set not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	case http.MethodDelete:
		if !s.app.History().RemoveSelectionSet(id) {
			notFound(w, "selection set not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSelectionSetLoad(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	valid, dropped, ok := s.app.History().LoadSelectionSet(id)
	if !ok {
		notFound(w, "selection set not found")
		return
	}
	resp := map[string]any{
		"adIds":   valid,
		"dropped": dropped,
	}
	if dropped > 0 {
		resp["warning"] = fmt.Sprintf("%d ad(s) in this set no longer exist in history", dropped)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSelectionSetImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var sets []domain.SelectionSet
	if err := json.NewDecoder(io.LimitReader(r.Body, 4<<20)).Decode(&sets); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	imported := s.app.History().ImportSelectionSets(sets)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": imported,
		"count": len(imported),
	})
}
