package adcopy

import (
	"errors"
	"fmt"
	"strings"

	"adsmith/pkg/domain"
)

// ErrNoContent reports a completion reply that contained no parseable
// headline/primary-text blocks. Recoverable: callers surface it, nothing
// crashes.
var ErrNoContent = errors.New("no ad content in completion")

// SystemPrompt is the fixed instruction sent with every generation request.
const SystemPrompt = `You are an expert copywriter. You have a deep understanding of the writing techniques of advertising legends like David Ogilvy, Dave Trott, Bill Bernbach, and Joseph Sugarman. Your ad text should be engaging and actionable. Generate 5 ad variations in this exact format:
Headline 1: "headline text"
Primary text 1: "primary text"

Headline 2: "headline text"
Primary text 2: "primary text"

Headline 3: "headline text"
Primary text 3: "primary text"

Headline 4: "headline text"
Primary text 4: "primary text"

Headline 5: "headline text"
Primary text 5: "primary text"`

// BuildPrompt renders the labeled submission template. Field order is
// fixed. The liked-headline block is included only when the submission
// opts in and liked is non-empty; the closing instruction is always
// appended.
func BuildPrompt(sub domain.Submission, liked []string) string {
	var b strings.Builder
	b.WriteString("Generate creative and engaging ad copy for the following:\n")
	fmt.Fprintf(&b, "Brand: %s\n", sub.BrandName)
	fmt.Fprintf(&b, "Product: %s\n", sub.Product)
	fmt.Fprintf(&b, "User Benefit: %s\n", sub.UserBenefit)
	fmt.Fprintf(&b, "Promotion: %s\n", sub.Promotion)
	fmt.Fprintf(&b, "Target Audience: %s\n", sub.Audience)
	fmt.Fprintf(&b, "Marketing Goal: %s\n", sub.Goal)
	fmt.Fprintf(&b, "Keywords to include: %s\n", strings.Join(sub.Keywords, ", "))
	rules := sub.AdditionalRules
	if rules == "" {
		rules = "None"
	}
	fmt.Fprintf(&b, "Additional Rules: %s", rules)

	if sub.CSVData != "" {
		fmt.Fprintf(&b, "\nPrevious successful headlines: %s", sub.CSVData)
	}
	if sub.UseLikedHeadlines && len(liked) > 0 {
		b.WriteString("\nPreviously liked headlines for reference:")
		for _, h := range liked {
			fmt.Fprintf(&b, "\n- %s", h)
		}
	}

	b.WriteString("\n\nGenerate exactly 5 unique ad variations in this format:\n")
	b.WriteString(`Headline N: "headline text"` + "\n")
	b.WriteString(`Primary text N: "primary text"`)
	return b.String()
}

// ParseCompletion converts the model's labeled reply into structured
// content. The reply is split on blank lines into at most 5 blocks of two
// `Label: "text"` lines each. The first block becomes title/description,
// the rest are re-rendered as variations. A missing quoted value yields an
// empty string; an entirely unparseable reply yields ErrNoContent.
func ParseCompletion(raw string) (domain.GeneratedContent, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	blocks := make([][]string, 0, 5)
	for _, chunk := range strings.Split(raw, "\n\n") {
		lines := make([]string, 0, 2)
		for _, line := range strings.Split(chunk, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, strings.TrimSpace(line))
			}
		}
		if len(lines) > 0 {
			blocks = append(blocks, lines)
		}
	}
	if len(blocks) == 0 {
		return domain.GeneratedContent{}, ErrNoContent
	}
	if len(blocks) > 5 {
		blocks = blocks[:5]
	}

	headline, primary := parseBlock(blocks[0])
	content := domain.GeneratedContent{
		Title:       headline,
		Description: primary,
		Variations:  make([]string, 0, len(blocks)-1),
	}
	for _, block := range blocks[1:] {
		h, p := parseBlock(block)
		content.Variations = append(content.Variations,
			fmt.Sprintf("Headline: \"%s\"\nPrimary text: \"%s\"", h, p))
	}
	return content, nil
}

func parseBlock(lines []string) (headline, primary string) {
	headline = quotedValue(lines[0])
	if len(lines) > 1 {
		primary = quotedValue(lines[1])
	}
	return headline, primary
}

// quotedValue extracts the text after `: "` with the closing quote
// removed. Lines without the delimiter yield an empty string.
func quotedValue(line string) string {
	idx := strings.Index(line, `: "`)
	if idx < 0 {
		return ""
	}
	return strings.TrimSuffix(line[idx+3:], `"`)
}
