package adcopy

import (
	"fmt"
	"strings"

	"adsmith/pkg/domain"
)

// Character limits per submission field.
const (
	MaxBrandName       = 50
	MaxProduct         = 100
	MaxUserBenefit     = 200
	MaxPromotion       = 200
	MaxAudience        = 100
	MaxGoal            = 150
	MaxAdditionalRules = 500
	MaxKeyword         = 30
	MaxKeywords        = 10
)

// Validate checks a submission and returns all field-level findings in a
// fixed order. An empty slice means the submission is valid. Validate is
// pure: no I/O, no panics.
func Validate(sub domain.Submission) []domain.ValidationError {
	var errs []domain.ValidationError
	add := func(field, message string) {
		errs = append(errs, domain.ValidationError{Field: field, Message: message})
	}

	checkRequired := func(field, label, value string, limit int) {
		if strings.TrimSpace(value) == "" {
			add(field, label+" is required")
		} else if len([]rune(value)) > limit {
			add(field, fmt.Sprintf("%s must be less than %d characters", label, limit))
		}
	}

	checkRequired("brandName", "Brand name", sub.BrandName, MaxBrandName)
	checkRequired("product", "Product/Service", sub.Product, MaxProduct)
	checkRequired("userBenefit", "User benefit", sub.UserBenefit, MaxUserBenefit)
	checkRequired("audience", "Target audience", sub.Audience, MaxAudience)
	checkRequired("goal", "Campaign goal", sub.Goal, MaxGoal)

	if sub.Promotion != "" && len([]rune(sub.Promotion)) > MaxPromotion {
		add("promotion", fmt.Sprintf("Promotion must be less than %d characters", MaxPromotion))
	}
	if sub.AdditionalRules != "" && len([]rune(sub.AdditionalRules)) > MaxAdditionalRules {
		add("additionalRules", fmt.Sprintf("Additional rules must be less than %d characters", MaxAdditionalRules))
	}

	switch {
	case len(sub.Keywords) == 0:
		add("keywords", "At least one keyword is required")
	case len(sub.Keywords) > MaxKeywords:
		add("keywords", fmt.Sprintf("Maximum %d keywords allowed", MaxKeywords))
	default:
		for _, k := range sub.Keywords {
			if len([]rune(k)) > MaxKeyword {
				add("keywords", fmt.Sprintf("Each keyword must be less than %d characters", MaxKeyword))
				break
			}
		}
	}

	return errs
}
