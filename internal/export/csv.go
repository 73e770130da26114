package export

import (
	"bytes"
	"encoding/csv"
	"strings"

	"adsmith/pkg/domain"
)

// csvHeader is the flat tabular layout: one row per entry, one column
// per denormalized field.
var csvHeader = []string{
	"Generated Date",
	"Original Title",
	"Original Description",
	"Keywords",
	"Tone",
	"Target Audience",
	"Generated Title",
	"Generated Description",
	"Variations",
}

// ToCSV renders the entries as a CSV blob in input order.
func ToCSV(entries []domain.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, ad := range entries {
		if err := w.Write(entryRow(ad)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func entryRow(ad domain.HistoryEntry) []string {
	return []string{
		ad.CreatedAt.Format("2006-01-02 15:04:05"),
		ad.Input.Title,
		ad.Input.Description,
		strings.Join(ad.Input.Keywords, ", "),
		string(ad.Input.Tone),
		ad.Input.TargetAudience,
		ad.Content.Title,
		ad.Content.Description,
		strings.Join(ad.Content.Variations, " | "),
	}
}
