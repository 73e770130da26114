package export

import (
	"fmt"
	"strings"

	"adsmith/pkg/domain"
)

// ToText renders the entries as a labeled plain-text report.
func ToText(entries []domain.HistoryEntry) []byte {
	var b strings.Builder
	b.WriteString("AD COPY GENERATION HISTORY\n")
	b.WriteString("=======================\n\n")

	for i, ad := range entries {
		fmt.Fprintf(&b, "Ad #%d\n", i+1)
		fmt.Fprintf(&b, "Generated: %s\n", ad.CreatedAt.Format("2006-01-02 15:04:05"))
		b.WriteString("-----------------------\n\n")

		b.WriteString("ORIGINAL INPUT:\n")
		fmt.Fprintf(&b, "Title: %s\n", ad.Input.Title)
		fmt.Fprintf(&b, "Description: %s\n", ad.Input.Description)
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(ad.Input.Keywords, ", "))
		fmt.Fprintf(&b, "Tone: %s\n", ad.Input.Tone)
		fmt.Fprintf(&b, "Target Audience: %s\n\n", ad.Input.TargetAudience)

		b.WriteString("GENERATED CONTENT:\n")
		fmt.Fprintf(&b, "Title: %s\n", ad.Content.Title)
		fmt.Fprintf(&b, "Description: %s\n", ad.Content.Description)

		if len(ad.Content.Variations) > 0 {
			b.WriteString("\nVariations:\n")
			for j, variation := range ad.Content.Variations {
				fmt.Fprintf(&b, "%d. %s\n", j+1, variation)
			}
		}

		b.WriteString("\n======================\n\n")
	}

	return []byte(b.String())
}
