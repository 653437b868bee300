// Package validate checks extracted entities against the dataset's known
// value sets and routes each request to exactly one of three outcomes:
// VALID, MISSING, or AMBIGUOUS.
package validate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Bellilty/real-estate-multi-agent/internal/dataset"
	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

// portfolioPhrases are the mentions that resolve to the portfolio
// pseudo-entity instead of a literal property name.
var portfolioPhrases = map[string]struct{}{
	"all properties": {}, "all buildings": {}, "my portfolio": {},
	"portfolio": {}, "all": {}, "propco": {},
}

// Validator validates entity mentions against the loaded dataset.
type Validator struct {
	data *dataset.Dataset
}

// New creates a Validator over the dataset.
func New(data *dataset.Dataset) *Validator {
	return &Validator{data: data}
}

// Validate checks every mention and the normalized periods, producing a
// single tagged outcome. Precedence when both conditions exist: MISSING
// wins, except that an unmatched mention with two or more partial-match
// candidates is an ambiguity, not a miss, and is left to the disambiguator.
func (v *Validator) Validate(
	intent model.Intent,
	entities model.ExtractedEntities,
	periods []model.Period,
	invalidPeriods []model.InvalidPeriod,
) model.ValidationResult {
	res := model.ValidationResult{
		Status:   model.ValidationValid,
		Entities: entities.Clone(),
	}
	res.Entities.Properties = res.Entities.Properties[:0]
	res.Entities.Tenants = res.Entities.Tenants[:0]

	for _, mention := range entities.Properties {
		v.checkMention(&res, "property", mention, v.data.Properties(), v.data.CanonicalProperty)
	}
	for _, mention := range entities.Tenants {
		v.checkMention(&res, "tenant", mention, v.data.Tenants(), v.data.CanonicalTenant)
	}

	for _, ip := range invalidPeriods {
		res.Missing = append(res.Missing, model.MissingField{
			Field:       "period",
			Mention:     ip.Raw,
			Suggestions: v.data.Years(),
		})
	}

	v.checkRequired(&res, intent, periods)

	switch {
	case len(res.Missing) > 0:
		res.Status = model.ValidationMissing
	case len(res.Ambiguous) > 0:
		res.Status = model.ValidationAmbiguous
	}

	zap.L().Debug("validate: result",
		zap.String("intent", string(intent)),
		zap.String("status", string(res.Status)),
		zap.Int("missing", len(res.Missing)),
		zap.Int("ambiguous", len(res.Ambiguous)),
	)
	return res
}

func (v *Validator) checkMention(
	res *model.ValidationResult,
	field, mention string,
	known []string,
	canonical func(string) (string, bool),
) {
	candidates := partialMatches(mention, known)

	// An exact case-insensitive match is valid only when no longer known
	// name extends the mention; "Building 18" next to "Building 180" is an
	// ambiguity even though the short name exists. The reverse is not:
	// "Building 180" is exact and nothing extends it.
	if name, ok := canonical(mention); ok && !extendedByOther(name, known) {
		v.appendResolved(res, field, name)
		return
	}

	if field == "property" {
		if _, ok := portfolioPhrases[strings.ToLower(strings.TrimSpace(mention))]; ok {
			v.appendResolved(res, field, model.PortfolioEntity)
			return
		}
	}
	switch {
	case len(candidates) == 0:
		res.Missing = append(res.Missing, model.MissingField{
			Field:       field,
			Mention:     mention,
			Suggestions: known,
		})

	case len(candidates) == 1 && sharesEdge(mention, candidates[0]):
		// A single candidate with the mention as its prefix or suffix is an
		// obvious truncation, not an ambiguity.
		v.appendResolved(res, field, candidates[0])

	default:
		am := model.AmbiguousMention{Field: field, Mention: mention}
		for _, c := range candidates {
			am.Candidates = append(am.Candidates, model.Candidate{Name: c})
		}
		res.Ambiguous = append(res.Ambiguous, am)
	}
}

func (v *Validator) appendResolved(res *model.ValidationResult, field, name string) {
	if field == "property" {
		res.Entities.Properties = append(res.Entities.Properties, name)
		return
	}
	res.Entities.Tenants = append(res.Entities.Tenants, name)
}

func (v *Validator) checkRequired(res *model.ValidationResult, intent model.Intent, periods []model.Period) {
	props := len(res.Entities.Properties) + ambiguousCount(res.Ambiguous, "property")
	tenants := len(res.Entities.Tenants) + ambiguousCount(res.Ambiguous, "tenant")

	missingNamed := func(field string) bool {
		for _, m := range res.Missing {
			if m.Field == field && m.Mention != "" {
				return true
			}
		}
		return false
	}

	switch intent {
	case model.IntentPropertyComparison:
		if props < 2 && !missingNamed("property") {
			res.Missing = append(res.Missing, model.MissingField{
				Field:       "properties",
				Suggestions: v.data.Properties(),
			})
		}
	case model.IntentTemporalComparison:
		if len(periods) < 2 {
			res.Missing = append(res.Missing, model.MissingField{
				Field:       "periods",
				Suggestions: v.data.Years(),
			})
		}
	case model.IntentPropertyDetails:
		if props == 0 && !missingNamed("property") {
			res.Missing = append(res.Missing, model.MissingField{
				Field:       "property",
				Suggestions: v.data.Properties(),
			})
		}
	case model.IntentTenantInfo:
		if tenants == 0 && !missingNamed("tenant") {
			res.Missing = append(res.Missing, model.MissingField{
				Field:       "tenant",
				Suggestions: v.data.Tenants(),
			})
		}
	case model.IntentMultiEntityQuery:
		if props == 0 && !missingNamed("property") {
			res.Missing = append(res.Missing, model.MissingField{
				Field:       "properties",
				Suggestions: v.data.Properties(),
			})
		}
	}
}

func ambiguousCount(ambiguous []model.AmbiguousMention, field string) int {
	n := 0
	for _, a := range ambiguous {
		if a.Field == field {
			n++
		}
	}
	return n
}

// partialMatches finds known names related to the mention by substring in
// either direction, case-insensitively.
func partialMatches(mention string, known []string) []string {
	m := strings.ToLower(strings.TrimSpace(mention))
	if m == "" {
		return nil
	}
	var out []string
	for _, k := range known {
		kl := strings.ToLower(k)
		if strings.Contains(kl, m) || strings.Contains(m, kl) {
			out = append(out, k)
		}
	}
	return out
}

// extendedByOther reports whether a known name other than the matched one
// contains the mention, meaning the mention could be a truncation of it.
func extendedByOther(matched string, known []string) bool {
	m := strings.ToLower(matched)
	for _, k := range known {
		if strings.EqualFold(k, matched) {
			continue
		}
		if strings.Contains(strings.ToLower(k), m) {
			return true
		}
	}
	return false
}

// sharesEdge reports whether the mention is a prefix or suffix of the
// candidate (or vice versa), case-insensitively.
func sharesEdge(mention, candidate string) bool {
	m := strings.ToLower(strings.TrimSpace(mention))
	c := strings.ToLower(candidate)
	return strings.HasPrefix(c, m) || strings.HasSuffix(c, m) ||
		strings.HasPrefix(m, c) || strings.HasSuffix(m, c)
}

// Describe renders a missing field for clarification text.
func Describe(m model.MissingField) string {
	if m.Mention != "" {
		return fmt.Sprintf("%s %q not found", m.Field, m.Mention)
	}
	return fmt.Sprintf("missing %s", m.Field)
}
