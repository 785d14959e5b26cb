package models

// PlanTier is the closed set of subscription tiers. Any value outside the
// set is treated as PlanFree wherever a tier is consumed — the entitlement
// table is the last line of defense against corrupted or legacy values.
type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanPro     PlanTier = "pro"
	PlanPremium PlanTier = "premium"
)

// ParsePlanTier normalizes an arbitrary string to a known tier,
// falling back to free. It never fails open to a paid tier.
func ParsePlanTier(s string) PlanTier {
	switch PlanTier(s) {
	case PlanPro:
		return PlanPro
	case PlanPremium:
		return PlanPremium
	default:
		return PlanFree
	}
}

func (p PlanTier) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanPremium:
		return true
	}
	return false
}

// CardFormat is the card layout: plain question/answer or multiple choice.
type CardFormat string

const (
	FormatQA  CardFormat = "qa"
	FormatMCQ CardFormat = "mcq"
)

func (f CardFormat) Valid() bool {
	return f == FormatQA || f == FormatMCQ
}

// InputMethod is how the source material for a set was provided.
type InputMethod string

const (
	InputText  InputMethod = "text"
	InputPDF   InputMethod = "pdf"
	InputTopic InputMethod = "topic"
)

func (m InputMethod) Valid() bool {
	switch m {
	case InputText, InputPDF, InputTopic:
		return true
	}
	return false
}

// BillingInterval selects which price a checkout uses. Monthly and annual
// prices of a plan map back to the same tier.
type BillingInterval string

const (
	BillingMonthly BillingInterval = "monthly"
	BillingAnnual  BillingInterval = "annual"
)
