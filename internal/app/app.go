// Package app wires the stores and the text generator into the ad copy
// generation flow. The HTTP layer stays thin; everything with semantics
// lives here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"adsmith/internal/adcopy"
	"adsmith/internal/form"
	"adsmith/internal/history"
	"adsmith/internal/saved"
	"adsmith/pkg/ai"
	"adsmith/pkg/domain"
)

// Config collects the collaborators the app needs. All fields are
// required except Templates.
type Config struct {
	Form      *form.Store
	History   *history.Store
	Saved     *saved.Store
	Generator ai.TextGenerator
	Templates []domain.Template
	Logger    *slog.Logger
}

// App is the application core. One instance serves all requests.
type App struct {
	form      *form.Store
	history   *history.Store
	saved     *saved.Store
	generator ai.TextGenerator
	templates []domain.Template
	logger    *slog.Logger
}

// New builds the application core.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		form:      cfg.Form,
		history:   cfg.History,
		saved:     cfg.Saved,
		generator: cfg.Generator,
		templates: cfg.Templates,
		logger:    logger,
	}
}

// Form exposes the form store.
func (a *App) Form() *form.Store { return a.form }

// History exposes the history store.
func (a *App) History() *history.Store { return a.history }

// Saved exposes the curation store.
func (a *App) Saved() *saved.Store { return a.saved }

// Templates returns the configured form templates.
func (a *App) Templates() []domain.Template {
	out := make([]domain.Template, len(a.templates))
	copy(out, a.templates)
	return out
}

// Generate runs one generation: missing-field check, prompt build, a
// single completion call, parse, slot update and exactly one history
// append. The returned content mirrors what was appended.
//
// The request sequence issued at the start guards the form slot: if a
// newer generation began while this one was in flight, the result is
// still returned to this caller but never installed in the form.
func (a *App) Generate(ctx context.Context, sub domain.Submission) (domain.GeneratedContent, error) {
	if missing := missingFields(sub); len(missing) > 0 {
		return domain.GeneratedContent{}, &MissingFieldsError{Fields: missing}
	}

	seq := a.form.BeginGeneration()

	liked := sub.LikedHeadlines
	if sub.UseLikedHeadlines && len(liked) == 0 {
		liked = a.saved.LikedHeadlineTexts()
	}
	prompt := adcopy.BuildPrompt(sub, liked)

	raw, err := a.generator.GenerateText(ctx, adcopy.SystemPrompt, prompt)
	if err != nil {
		a.form.FailGeneration(seq, "Failed to generate ad copy. Please try again.")
		a.logger.Error("generation call failed", "err", err)
		return domain.GeneratedContent{}, fmt.Errorf("generate ad copy: %w", err)
	}

	content, err := adcopy.ParseCompletion(raw)
	if err != nil {
		a.form.FailGeneration(seq, "No ad content was generated. Please try again.")
		a.logger.Warn("completion contained no ad content")
		return domain.GeneratedContent{}, err
	}

	installed := a.form.CompleteGeneration(seq, domain.GeneratedAd{
		ID:          uuid.NewString(),
		Headline:    content.Title,
		PrimaryText: content.Description,
		CreatedAt:   time.Now().UTC(),
	})
	if !installed {
		a.logger.Info("stale generation result discarded", "seq", seq)
	}

	entry := a.history.Add(historyInput(sub), content)
	a.logger.Info("ad copy generated",
		"historyId", entry.ID,
		"variations", len(content.Variations),
	)
	return content, nil
}

func historyInput(sub domain.Submission) domain.HistoryInput {
	return domain.HistoryInput{
		BrandName:       sub.BrandName,
		Product:         sub.Product,
		UserBenefit:     sub.UserBenefit,
		Promotion:       sub.Promotion,
		Audience:        sub.Audience,
		Goal:            sub.Goal,
		Keywords:        append([]string(nil), sub.Keywords...),
		AdditionalRules: sub.AdditionalRules,
		Tone:            sub.Tone,
		Title:           sub.CampaignName,
		TargetAudience:  sub.Audience,
	}
}

// missingFields reports which required submission fields are absent, in
// the fixed field order used by the error message.
func missingFields(sub domain.Submission) []string {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("brandName", sub.BrandName)
	check("product", sub.Product)
	check("userBenefit", sub.UserBenefit)
	check("promotion", sub.Promotion)
	check("audience", sub.Audience)
	check("goal", sub.Goal)
	if len(sub.Keywords) == 0 {
		missing = append(missing, "keywords")
	}
	return missing
}
