package conversation

import (
	"regexp"
	"strings"
)

// Resolution is the outcome of follow-up detection: the query the rest of
// the run operates on, plus flags the downstream stages honor.
type Resolution struct {
	Query string
	// IsFollowUp marks the query as dependent on conversation history.
	IsFollowUp bool
	// ClearTemporalScope forces aggregation over all periods, overriding
	// any period carried from the previous turn.
	ClearTemporalScope bool
	// CarryYear completes bare quarter/month references downstream.
	CarryYear string
}

// Resolver rewrites follow-up queries into standalone ones using the
// session's most recent turn. Detection is marker based and deterministic;
// a query with no follow-up markers passes through untouched.
type Resolver struct{}

func NewResolver() *Resolver { return &Resolver{} }

var (
	anaphoraRe    = regexp.MustCompile(`(?i)\b(it|that one|that|them|those)\b`)
	ellipticalRe  = regexp.MustCompile(`(?i)^\s*(and|what about|how about|same for|also)\b`)
	aggregateRe   = regexp.MustCompile(`(?i)\b(overall|in total|all[- ]time|altogether|across all (years|periods))\b`)
	yearMentionRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Resolve inspects the query against the session context. With no history
// the query always passes through as standalone.
func (r *Resolver) Resolve(query string, ctx *Context) Resolution {
	res := Resolution{Query: query}
	if ctx == nil || ctx.Len() == 0 {
		return res
	}

	aggregate := aggregateRe.MatchString(query)
	anaphora := anaphoraRe.MatchString(query)
	elliptical := ellipticalRe.MatchString(query)
	if !aggregate && !anaphora && !elliptical {
		return res
	}

	res.IsFollowUp = true
	res.ClearTemporalScope = aggregate
	if !yearMentionRe.MatchString(query) {
		res.CarryYear = ctx.LastYear()
	}

	entities, _ := ctx.LastEntities()
	subject := strings.Join(entities.Properties, " and ")
	if subject == "" {
		subject = strings.Join(entities.Tenants, " and ")
	}

	rewritten := query
	if anaphora && subject != "" {
		rewritten = anaphoraRe.ReplaceAllString(rewritten, subject)
	} else if subject != "" && !mentionsAny(rewritten, entities.Properties) && !mentionsAny(rewritten, entities.Tenants) {
		rewritten = strings.TrimRight(rewritten, " ?") + " for " + subject
		if strings.HasSuffix(strings.TrimSpace(query), "?") {
			rewritten += "?"
		}
	}
	res.Query = rewritten
	return res
}

func mentionsAny(query string, names []string) bool {
	lower := strings.ToLower(query)
	for _, n := range names {
		if n != "" && strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
