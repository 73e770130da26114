package domain

import (
	"strings"
	"time"
)

type Tone string

const (
	ToneProfessional  Tone = "professional"
	ToneCasual        Tone = "casual"
	ToneExcited       Tone = "excited"
	ToneUrgent        Tone = "urgent"
	ToneFriendly      Tone = "friendly"
	ToneAuthoritative Tone = "authoritative"
)

// ParseTone normalizes a tone string. Unknown values report ok=false.
func ParseTone(s string) (Tone, bool) {
	switch Tone(strings.ToLower(strings.TrimSpace(s))) {
	case ToneProfessional:
		return ToneProfessional, true
	case ToneCasual:
		return ToneCasual, true
	case ToneExcited:
		return ToneExcited, true
	case ToneUrgent:
		return ToneUrgent, true
	case ToneFriendly:
		return ToneFriendly, true
	case ToneAuthoritative:
		return ToneAuthoritative, true
	}
	return "", false
}

// Submission is the user-entered ad brief before generation.
type Submission struct {
	CampaignName      string   `json:"campaignName"`
	CampaignDate      string   `json:"campaignDate"`
	BrandName         string   `json:"brandName"`
	Product           string   `json:"product"`
	UserBenefit       string   `json:"userBenefit"`
	Promotion         string   `json:"promotion"`
	Audience          string   `json:"audience"`
	Goal              string   `json:"goal"`
	Keywords          []string `json:"keywords"`
	AdditionalRules   string   `json:"additionalRules,omitempty"`
	Tone              Tone     `json:"tone"`
	CSVData           string   `json:"csvData,omitempty"`
	UseLikedHeadlines bool     `json:"useLikedHeadlines,omitempty"`
	LikedHeadlines    []string `json:"likedHeadlines,omitempty"`
}

// GeneratedAd is the single headline/primary-text pair occupying the
// form's generation slot. Replaced wholesale on each generation.
type GeneratedAd struct {
	ID          string    `json:"id"`
	Headline    string    `json:"headline"`
	PrimaryText string    `json:"primaryText"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SavedAd is a generated ad a user explicitly kept, together with the
// campaign metadata captured at save time.
type SavedAd struct {
	GeneratedAd
	CampaignName string `json:"campaignName"`
	CampaignDate string `json:"campaignDate"`
	BrandName    string `json:"brandName"`
	Product      string `json:"product"`
}

// LikedHeadline marks a headline as a stylistic exemplar. Toggle identity
// is the headline text, not the id.
type LikedHeadline struct {
	ID          string    `json:"id"`
	Headline    string    `json:"headline"`
	PrimaryText string    `json:"primaryText"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GeneratedContent is the model's structured reply.
type GeneratedContent struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Variations  []string `json:"variations"`
}

// HistoryInput is the denormalized submission snapshot carried by a
// history entry. Title/Description/TargetAudience are optional fields
// used only by search and the export views.
type HistoryInput struct {
	BrandName       string   `json:"brandName"`
	Product         string   `json:"product"`
	UserBenefit     string   `json:"userBenefit"`
	Promotion       string   `json:"promotion"`
	Audience        string   `json:"audience"`
	Goal            string   `json:"goal"`
	Keywords        []string `json:"keywords"`
	AdditionalRules string   `json:"additionalRules"`
	Tone            Tone     `json:"tone"`
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	TargetAudience  string   `json:"targetAudience,omitempty"`
}

// HistoryEntry is one immutable record in the capped generation log.
type HistoryEntry struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Input     HistoryInput     `json:"originalInput"`
	Content   GeneratedContent `json:"generatedContent"`
}

// SelectionSet is a named bookmark list over history entry ids. It
// references entries by id only and never owns their content.
type SelectionSet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdIDs     []string  `json:"adIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// Template is a reusable prefill for the submission form.
type Template struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Fields      Submission `json:"fields"`
	SavedAt     time.Time  `json:"savedAt"`
}

// ValidationError is a single field-level finding.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
