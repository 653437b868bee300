package nlp

import (
	"fmt"
	"strings"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

// FallbackAnswer renders a result as plain text without any external
// service, used when generation fails so a computed result is never lost.
func FallbackAnswer(res model.QueryResult) string {
	if res.NoData {
		return "No matching records were found for that request."
	}

	switch res.Kind {
	case model.QueryPL:
		return plAnswer(res.PL)
	case model.QueryComparison:
		return comparisonAnswer(res.Comparison)
	case model.QueryTemporalComparison:
		return temporalAnswer(res.Temporal)
	case model.QueryMultiEntity:
		return batchAnswer(res.Batch)
	case model.QueryPropertyDetail:
		return propertyDetailAnswer(res.PropertyDetail)
	case model.QueryTenantDetail:
		return tenantDetailAnswer(res.TenantDetail)
	case model.QueryRanking:
		return rankingAnswer(res.Ranking)
	case model.QuerySummary:
		return summaryAnswer(res.Summary)
	default:
		return "The request completed but the result could not be rendered."
	}
}

func scopeLabel(property string) string {
	if property == model.PortfolioEntity {
		return "the portfolio"
	}
	return property
}

func periodLabel(p model.Period) string {
	if p.Kind == model.PeriodAll {
		return "all periods"
	}
	return p.Value
}

func plAnswer(pl *model.PLResult) string {
	scope := scopeLabel(pl.Property)
	period := periodLabel(pl.Period)
	switch pl.Metric {
	case model.MetricRevenue:
		return fmt.Sprintf("Revenue for %s in %s was $%.2f across %d records.", scope, period, pl.Revenue, pl.Records)
	case model.MetricExpense:
		return fmt.Sprintf("Expenses for %s in %s were $%.2f across %d records.", scope, period, pl.Expenses, pl.Records)
	default:
		return fmt.Sprintf("For %s in %s: revenue $%.2f, expenses $%.2f, net $%.2f (%d records).",
			scope, period, pl.Revenue, pl.Expenses, pl.Net, pl.Records)
	}
}

func comparisonAnswer(c *model.ComparisonResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Comparison for %s — best: %s, worst: %s.", periodLabel(c.Period), c.Best, c.Worst)
	for _, r := range c.Ranking {
		fmt.Fprintf(&b, "\n- %s: net $%.2f", r.Name, r.Value)
	}
	return b.String()
}

func temporalAnswer(t *model.TemporalResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s over time — best period: %s, worst: %s.", scopeLabel(t.Property), t.Best, t.Worst)
	for _, r := range t.Ranking {
		fmt.Fprintf(&b, "\n- %s: net $%.2f", r.Name, r.Value)
	}
	return b.String()
}

func batchAnswer(batch *model.BatchResult) string {
	var b strings.Builder
	b.WriteString("Results:")
	for _, item := range batch.Items {
		if item.NoData {
			fmt.Fprintf(&b, "\n- %s, %s: no data", scopeLabel(item.Property), periodLabel(item.Period))
			continue
		}
		fmt.Fprintf(&b, "\n- %s, %s: revenue $%.2f, expenses $%.2f, net $%.2f",
			scopeLabel(item.Property), periodLabel(item.Period), item.Result.Revenue, item.Result.Expenses, item.Result.Net)
	}
	return b.String()
}

func propertyDetailAnswer(d *model.PropertyDetailResult) string {
	tenants := "no recorded tenants"
	if len(d.Tenants) > 0 {
		tenants = "tenants: " + strings.Join(d.Tenants, ", ")
	}
	return fmt.Sprintf("%s has %s; lifetime revenue $%.2f, expenses $%.2f, net $%.2f (%d records).",
		d.Property, tenants, d.Revenue, d.Expenses, d.Net, d.Records)
}

func tenantDetailAnswer(d *model.TenantDetailResult) string {
	props := "no recorded properties"
	if len(d.Properties) > 0 {
		props = strings.Join(d.Properties, ", ")
	}
	return fmt.Sprintf("%s occupies %s; total revenue $%.2f across %d records.",
		d.Tenant, props, d.Revenue, d.Records)
}

func rankingAnswer(r *model.RankingResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ranked by %s (%s) for %s — top: %s at $%.2f.",
		r.Target, r.Direction, periodLabel(r.Period), r.Winner.Name, r.Winner.Value)
	for _, e := range r.Ranking {
		fmt.Fprintf(&b, "\n- %s: $%.2f", e.Name, e.Value)
	}
	return b.String()
}

func summaryAnswer(s *model.SummaryResult) string {
	return fmt.Sprintf("The ledger holds %d records across %d properties and %d tenants, covering %s. Totals: revenue $%.2f, expenses $%.2f, net $%.2f.",
		s.Records, s.PropertyCount, s.TenantCount, strings.Join(s.Years, ", "), s.Revenue, s.Expenses, s.Net)
}
