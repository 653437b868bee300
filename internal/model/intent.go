package model

import "strings"

// Intent is the classified purpose of a user query. The classification
// service returns one of a closed set of nine labels; anything else is
// coerced to IntentUnsupported at the boundary.
type Intent string

const (
	IntentPLCalculation      Intent = "pl_calculation"
	IntentPropertyComparison Intent = "property_comparison"
	IntentTemporalComparison Intent = "temporal_comparison"
	IntentMultiEntityQuery   Intent = "multi_entity_query"
	IntentPropertyDetails    Intent = "property_details"
	IntentTenantInfo         Intent = "tenant_info"
	IntentAnalyticsQuery     Intent = "analytics_query"
	IntentGeneralQuery       Intent = "general_query"
	IntentUnsupported        Intent = "unsupported"
)

// AllIntents lists every valid intent label.
func AllIntents() []Intent {
	return []Intent{
		IntentPLCalculation,
		IntentPropertyComparison,
		IntentTemporalComparison,
		IntentMultiEntityQuery,
		IntentPropertyDetails,
		IntentTenantInfo,
		IntentAnalyticsQuery,
		IntentGeneralQuery,
		IntentUnsupported,
	}
}

// ParseIntent maps a raw label to a valid Intent, falling back to
// IntentUnsupported for anything outside the closed set.
func ParseIntent(raw string) Intent {
	label := Intent(strings.ToLower(strings.TrimSpace(raw)))
	for _, in := range AllIntents() {
		if in == label {
			return in
		}
	}
	return IntentUnsupported
}

// Confidence is the classification service's self-reported certainty.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence coerces a raw confidence tag, defaulting to low.
func ParseConfidence(raw string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(raw))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
