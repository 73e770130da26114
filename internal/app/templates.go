package app

import (
	"encoding/json"
	"log/slog"
	"os"

	"adsmith/pkg/domain"
)

// LoadTemplates reads form templates from a JSON file. A missing or
// malformed file degrades to an empty list with a warning; templates are
// a convenience, never a startup failure.
func LoadTemplates(path string, logger *slog.Logger) []domain.Template {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("templates file unavailable", "path", path, "err", err)
		return nil
	}
	var templates []domain.Template
	if err := json.Unmarshal(data, &templates); err != nil {
		logger.Warn("templates file malformed, ignoring", "path", path, "err", err)
		return nil
	}
	return templates
}
