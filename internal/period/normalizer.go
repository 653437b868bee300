// Package period converts natural temporal expressions into canonical
// period filters: a year ("2024"), a quarter ("2024-Q3"), a month
// ("2024-M11"), or the all-periods marker.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

var (
	yearRe        = regexp.MustCompile(`^\d{4}$`)
	quarterRe     = regexp.MustCompile(`(?i)^(\d{4})-Q(\d{1,2})$`)
	monthRe       = regexp.MustCompile(`(?i)^(\d{4})-M(\d{1,2})$`)
	bareQuarterRe = regexp.MustCompile(`(?i)^Q(\d{1,2})$`)
	bareMonthNoRe = regexp.MustCompile(`(?i)^M(\d{1,2})$`)
	quarterYearRe = regexp.MustCompile(`(?i)^Q(\d{1,2})[\s,]+(\d{4})$`)
	yearQuarterRe = regexp.MustCompile(`(?i)^(\d{4})[\s,]+Q(\d{1,2})$`)
	monthYearRe   = regexp.MustCompile(`(?i)^([a-z]+)[\s,]+(\d{4})$`)
)

var monthNames = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

var aggregateTerms = map[string]struct{}{
	"overall": {}, "in total": {}, "total": {},
	"all years": {}, "all periods": {}, "all time": {},
}

// Normalizer resolves temporal expressions against an anchor year for
// relative references ("this year", "last year").
type Normalizer struct {
	anchorYear int
}

// New creates a Normalizer. A zero anchor year means the current wall-clock
// year.
func New(anchorYear int) *Normalizer {
	if anchorYear == 0 {
		anchorYear = time.Now().Year()
	}
	return &Normalizer{anchorYear: anchorYear}
}

// Normalize converts raw expressions (already segmented by the extraction
// service) into canonical periods. carryYear optionally supplies a year
// carried forward from conversation context for bare quarter/month
// expressions. Expressions that match nothing, or carry an out-of-range
// component, come back as explicit invalid entries so callers surface them
// as validation failures instead of silently dropping them.
func (n *Normalizer) Normalize(raws []string, carryYear string) ([]model.Period, []model.InvalidPeriod) {
	var periods []model.Period
	var invalid []model.InvalidPeriod

	// Bare quarters and months borrow a year from a sibling expression
	// first, then from the carried-forward context.
	contextYear := carryYear
	for _, raw := range raws {
		if yearRe.MatchString(strings.TrimSpace(raw)) {
			contextYear = strings.TrimSpace(raw)
			break
		}
	}

	yearConsumed := false
	add := func(p model.Period) {
		for _, have := range periods {
			if have == p {
				return
			}
		}
		periods = append(periods, p)
	}

	for _, raw := range raws {
		expr := strings.TrimSpace(raw)
		lower := strings.ToLower(expr)

		switch {
		case expr == "":
			continue

		case lower == "all_periods":
			add(model.AllPeriods)

		case yearRe.MatchString(expr):
			// Skip for now: emitted below only if no bare quarter/month
			// consumed it.
			continue

		case quarterRe.MatchString(expr):
			m := quarterRe.FindStringSubmatch(expr)
			q, _ := strconv.Atoi(m[2])
			if q < 1 || q > 4 {
				invalid = append(invalid, model.InvalidPeriod{Raw: raw, Reason: fmt.Sprintf("quarter %d out of range 1-4", q)})
				continue
			}
			add(model.Period{Kind: model.PeriodQuarter, Value: fmt.Sprintf("%s-Q%d", m[1], q)})

		case monthRe.MatchString(expr):
			m := monthRe.FindStringSubmatch(expr)
			mo, _ := strconv.Atoi(m[2])
			if mo < 1 || mo > 12 {
				invalid = append(invalid, model.InvalidPeriod{Raw: raw, Reason: fmt.Sprintf("month %d out of range 1-12", mo)})
				continue
			}
			add(model.Period{Kind: model.PeriodMonth, Value: fmt.Sprintf("%s-M%02d", m[1], mo)})

		case quarterYearRe.MatchString(expr), yearQuarterRe.MatchString(expr):
			var q int
			var year string
			if m := quarterYearRe.FindStringSubmatch(expr); m != nil {
				q, _ = strconv.Atoi(m[1])
				year = m[2]
			} else {
				m = yearQuarterRe.FindStringSubmatch(expr)
				year = m[1]
				q, _ = strconv.Atoi(m[2])
			}
			if q < 1 || q > 4 {
				invalid = append(invalid, model.InvalidPeriod{Raw: raw, Reason: fmt.Sprintf("quarter %d out of range 1-4", q)})
				continue
			}
			add(model.Period{Kind: model.PeriodQuarter, Value: fmt.Sprintf("%s-Q%d", year, q)})

		case monthYearParts(lower) != nil:
			parts := monthYearParts(lower)
			add(model.Period{Kind: model.PeriodMonth, Value: fmt.Sprintf("%s-M%02d", parts.year, parts.month)})

		case bareQuarterRe.MatchString(expr):
			m := bareQuarterRe.FindStringSubmatch(expr)
			q, _ := strconv.Atoi(m[1])
			if q < 1 || q > 4 {
				invalid = append(invalid, model.InvalidPeriod{Raw: raw, Reason: fmt.Sprintf("quarter %d out of range 1-4", q)})
				continue
			}
			if contextYear == "" {
				invalid = append(invalid, model.InvalidPeriod{Raw: raw, Reason: "no year available for bare quarter"})
				continue
			}
			yearConsumed = true
			add(model.Period{Kind: model.PeriodQuarter, Value: fmt.Sprintf("%s-Q%d", contextYear, q)})

		case isBareMonth(lower):
			mo := bareMonthNumber(lower)
			if mo < 1 || mo > 12 {
				invalid = append(invalid, model.InvalidPeriod{Raw: raw, Reason: fmt.Sprintf("month %d out of range 1-12", mo)})
				continue
			}
			if contextYear == "" {
				invalid = append(invalid, model.InvalidPeriod{Raw: raw, Reason: "no year available for bare month"})
				continue
			}
			yearConsumed = true
			add(model.Period{Kind: model.PeriodMonth, Value: fmt.Sprintf("%s-M%02d", contextYear, mo)})

		case lower == "this year" || lower == "current year":
			add(model.Period{Kind: model.PeriodYear, Value: strconv.Itoa(n.anchorYear)})

		case lower == "last year" || lower == "previous year":
			add(model.Period{Kind: model.PeriodYear, Value: strconv.Itoa(n.anchorYear - 1)})

		default:
			if _, ok := aggregateTerms[lower]; ok {
				add(model.AllPeriods)
				continue
			}
			invalid = append(invalid, model.InvalidPeriod{Raw: raw, Reason: "unrecognized temporal expression"})
		}
	}

	// Emit bare years that no quarter/month consumed.
	for _, raw := range raws {
		expr := strings.TrimSpace(raw)
		if !yearRe.MatchString(expr) {
			continue
		}
		if yearConsumed && expr == contextYear {
			continue
		}
		add(model.Period{Kind: model.PeriodYear, Value: expr})
	}

	return periods, invalid
}

type monthYear struct {
	month int
	year  string
}

// monthYearParts parses "march 2024" style expressions, nil when the word
// is not a month name.
func monthYearParts(lower string) *monthYear {
	m := monthYearRe.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	mo, ok := monthNames[m[1]]
	if !ok {
		return nil
	}
	return &monthYear{month: mo, year: m[2]}
}

func isBareMonth(lower string) bool {
	if _, ok := monthNames[lower]; ok {
		return true
	}
	return bareMonthNoRe.MatchString(lower)
}

func bareMonthNumber(lower string) int {
	if mo, ok := monthNames[lower]; ok {
		return mo
	}
	m := bareMonthNoRe.FindStringSubmatch(lower)
	mo, _ := strconv.Atoi(m[1])
	return mo
}
