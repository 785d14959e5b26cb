// Package entitlements holds the static mapping from plan tier to the
// limits and feature flags that tier grants. It is versionless and has no
// operations beyond lookup.
package entitlements

import (
	"github.com/izzat2702/KognitDeck/internal/models"
)

// Unlimited marks a quota or cap with no finite limit.
const Unlimited = -1

// Limits is one row of the entitlement table.
type Limits struct {
	CardsPerMonth   int
	Formats         []models.CardFormat
	InputMethods    []models.InputMethod
	QuizLimit       int
	Analytics       bool
	CSVExport       bool
	TopicGeneration bool
}

var table = map[models.PlanTier]Limits{
	models.PlanFree: {
		CardsPerMonth:   50,
		Formats:         []models.CardFormat{models.FormatQA},
		InputMethods:    []models.InputMethod{models.InputText, models.InputPDF},
		QuizLimit:       10,
		Analytics:       false,
		CSVExport:       false,
		TopicGeneration: false,
	},
	models.PlanPro: {
		CardsPerMonth:   250,
		Formats:         []models.CardFormat{models.FormatQA, models.FormatMCQ},
		InputMethods:    []models.InputMethod{models.InputText, models.InputPDF},
		QuizLimit:       Unlimited,
		Analytics:       true,
		CSVExport:       false,
		TopicGeneration: false,
	},
	models.PlanPremium: {
		CardsPerMonth:   Unlimited,
		Formats:         []models.CardFormat{models.FormatQA, models.FormatMCQ},
		InputMethods:    []models.InputMethod{models.InputText, models.InputPDF, models.InputTopic},
		QuizLimit:       Unlimited,
		Analytics:       true,
		CSVExport:       true,
		TopicGeneration: true,
	},
}

// ForPlan looks up the entitlement row for a tier. Unrecognized tiers fall
// back to the free row rather than failing: this table is the last line of
// defense against corrupted or legacy plan values.
func ForPlan(tier models.PlanTier) Limits {
	if limits, ok := table[tier]; ok {
		return limits
	}
	return table[models.PlanFree]
}

// HasUnlimitedCards reports whether the tier meters card generation at all.
func (l Limits) HasUnlimitedCards() bool {
	return l.CardsPerMonth == Unlimited
}

// AllowsFormat reports whether the tier may generate cards in the format.
func (l Limits) AllowsFormat(format models.CardFormat) bool {
	for _, f := range l.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// AllowsInputMethod reports whether the tier may use the input method.
func (l Limits) AllowsInputMethod(method models.InputMethod) bool {
	for _, m := range l.InputMethods {
		if m == method {
			return true
		}
	}
	return false
}
