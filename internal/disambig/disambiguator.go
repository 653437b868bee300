// Package disambig fuzzy-resolves entity mentions that partially match
// multiple known values, for example "Building 18" against "Building 18"
// and "Building 180".
package disambig

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"go.uber.org/zap"

	"github.com/Bellilty/real-estate-multi-agent/internal/config"
	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

// Disambiguator ranks candidates by normalized edit-distance similarity and
// auto-resolves only clear winners. Thresholds come from configuration so
// boundary behavior is assertable.
type Disambiguator struct {
	threshold     float64
	margin        float64
	maxCandidates int
}

// New creates a Disambiguator from matching configuration.
func New(cfg config.MatchingConfig) *Disambiguator {
	return &Disambiguator{
		threshold:     cfg.AutoResolveThreshold,
		margin:        cfg.AutoResolveMargin,
		maxCandidates: cfg.MaxCandidates,
	}
}

// Similarity scores two names in [0,1] using normalized Levenshtein
// distance, case-insensitively.
var matchParams = levenshtein.NewParams()

func Similarity(a, b string) float64 {
	return levenshtein.Similarity(strings.ToLower(a), strings.ToLower(b), matchParams)
}

// Resolve attempts to settle each ambiguous mention. Auto-resolved names
// are appended to a copy of the given entities; mentions that remain
// unclear come back as a residual list carrying ranked candidates for
// display. A non-empty residual means the pipeline must exit to
// clarification instead of executing.
func (d *Disambiguator) Resolve(
	entities model.ExtractedEntities,
	ambiguous []model.AmbiguousMention,
) (model.ExtractedEntities, []model.AmbiguousMention) {
	resolved := entities.Clone()
	var residual []model.AmbiguousMention

	for _, am := range ambiguous {
		ranked := d.rank(am)

		if d.autoResolvable(ranked.Candidates) {
			winner := ranked.Candidates[0].Name
			if am.Field == "property" {
				resolved.Properties = append(resolved.Properties, winner)
			} else {
				resolved.Tenants = append(resolved.Tenants, winner)
			}
			zap.L().Debug("disambig: auto-resolved",
				zap.String("mention", am.Mention),
				zap.String("resolved_to", winner),
				zap.Float64("score", ranked.Candidates[0].Score),
			)
			continue
		}

		residual = append(residual, ranked)
	}

	return resolved, residual
}

// rank scores and orders a mention's candidates, capping the list.
func (d *Disambiguator) rank(am model.AmbiguousMention) model.AmbiguousMention {
	out := model.AmbiguousMention{Field: am.Field, Mention: am.Mention}
	for _, c := range am.Candidates {
		out.Candidates = append(out.Candidates, model.Candidate{
			Name:  c.Name,
			Score: Similarity(am.Mention, c.Name),
		})
	}
	sort.SliceStable(out.Candidates, func(i, j int) bool {
		return out.Candidates[i].Score > out.Candidates[j].Score
	})
	if d.maxCandidates > 0 && len(out.Candidates) > d.maxCandidates {
		out.Candidates = out.Candidates[:d.maxCandidates]
	}
	return out
}

// autoResolvable requires the top candidate to clear the confidence
// threshold and lead the runner-up by the configured margin.
func (d *Disambiguator) autoResolvable(ranked []model.Candidate) bool {
	if len(ranked) == 0 {
		return false
	}
	if ranked[0].Score < d.threshold {
		return false
	}
	if len(ranked) == 1 {
		return true
	}
	return ranked[0].Score-ranked[1].Score >= d.margin
}
