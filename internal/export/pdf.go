// Package export turns history entries into downloadable artifacts. All
// transformers are pure over their input slice and preserve its order.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"adsmith/pkg/domain"
)

const (
	pdfMargin     = 20.0
	pdfBreakRoom  = 60.0 // start a fresh page when less than this remains
	pdfLineHeight = 7.0
)

// ToPDF renders the entries into a paginated document. A page break is
// inserted whenever the cursor would run into the bottom break room.
func ToPDF(entries []domain.HistoryEntry) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	pageW, pageH := doc.GetPageSize()
	textW := pageW - 2*pdfMargin
	y := pdfMargin

	text := func(size, x float64, s string) {
		doc.SetFont("Helvetica", "", size)
		doc.Text(x, y, s)
		y += pdfLineHeight
	}
	wrapped := func(size, x float64, s string) {
		doc.SetFont("Helvetica", "", size)
		for _, line := range doc.SplitText(s, textW-(x-pdfMargin)) {
			doc.Text(x, y, line)
			y += pdfLineHeight
		}
	}

	for i, ad := range entries {
		if y > pageH-pdfBreakRoom {
			doc.AddPage()
			y = pdfMargin
		}

		doc.SetFont("Helvetica", "B", 16)
		doc.Text(pdfMargin, y, fmt.Sprintf("Ad #%d", i+1))
		y += 10

		text(12, pdfMargin, "Generated: "+ad.CreatedAt.Format("2006-01-02 15:04:05"))
		y += 3

		text(12, pdfMargin, "Original Input:")
		text(10, pdfMargin+5, "Title: "+ad.Input.Title)
		wrapped(10, pdfMargin+5, "Description: "+ad.Input.Description)
		text(10, pdfMargin+5, "Keywords: "+strings.Join(ad.Input.Keywords, ", "))
		text(10, pdfMargin+5, "Tone: "+string(ad.Input.Tone))
		text(10, pdfMargin+5, "Target Audience: "+ad.Input.TargetAudience)
		y += 3

		text(12, pdfMargin, "Generated Content:")
		text(10, pdfMargin+5, "Title: "+ad.Content.Title)
		wrapped(10, pdfMargin+5, "Description: "+ad.Content.Description)

		if len(ad.Content.Variations) > 0 {
			text(10, pdfMargin+5, "Variations:")
			for j, variation := range ad.Content.Variations {
				wrapped(10, pdfMargin+10, fmt.Sprintf("%d. %s", j+1, flattenLines(variation)))
			}
		}

		y += 15 // space between ads
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func flattenLines(s string) string {
	return strings.Join(strings.Split(s, "\n"), " / ")
}
