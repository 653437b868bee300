// Package query turns a validated intent plus resolved entities into
// structured aggregates over the transaction ledger. All arithmetic lives
// here; answer prose is generated elsewhere.
package query

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Bellilty/real-estate-multi-agent/internal/dataset"
	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

// breakdownLimit caps per-category rows in P&L breakdowns.
const breakdownLimit = 10

// Request is a fully validated query: entities are canonical dataset names
// (or the portfolio pseudo-entity) and periods are normalized.
type Request struct {
	Intent   model.Intent
	Entities model.ExtractedEntities
	Periods  []model.Period
}

// Executor runs aggregation queries against the loaded dataset.
type Executor struct {
	data *dataset.Dataset
}

func New(data *dataset.Dataset) *Executor {
	return &Executor{data: data}
}

// Execute dispatches on intent. A well-formed request that matches zero
// records returns NoData=true, never an error; errors mean the request
// shape itself is unanswerable.
func (e *Executor) Execute(req Request) (model.QueryResult, error) {
	switch req.Intent {
	case model.IntentPLCalculation:
		return e.profitLoss(req), nil
	case model.IntentPropertyComparison:
		return e.compareProperties(req)
	case model.IntentTemporalComparison:
		return e.compareTemporal(req)
	case model.IntentMultiEntityQuery:
		return e.multiEntity(req)
	case model.IntentPropertyDetails:
		return e.propertyDetail(req)
	case model.IntentTenantInfo:
		return e.tenantDetail(req)
	case model.IntentAnalyticsQuery:
		return e.ranking(req), nil
	case model.IntentGeneralQuery:
		return e.summary(), nil
	default:
		return model.QueryResult{}, eris.Errorf("query: intent %q is not executable", req.Intent)
	}
}

// scope returns the property filter for single-scope queries: "" means the
// whole portfolio, either because no property was given or because the
// portfolio pseudo-entity was.
func scope(entities model.ExtractedEntities) string {
	if len(entities.Properties) == 0 {
		return ""
	}
	if entities.Properties[0] == model.PortfolioEntity {
		return ""
	}
	return entities.Properties[0]
}

// primaryPeriod picks the period for single-period queries, defaulting to
// the all-periods aggregate.
func primaryPeriod(periods []model.Period) model.Period {
	if len(periods) == 0 {
		return model.AllPeriods
	}
	return periods[0]
}

func displayName(property string) string {
	if property == "" {
		return model.PortfolioEntity
	}
	return property
}

func (e *Executor) computePL(property string, period model.Period, metric model.Metric) model.PLResult {
	if metric == "" {
		metric = model.MetricPL
	}
	f := dataset.Filter{Property: property, Period: period}
	rev, exp, count := e.data.Totals(f)

	res := model.PLResult{
		Property: displayName(property),
		Period:   period,
		Metric:   metric,
		Revenue:  rev,
		Expenses: exp,
		Net:      rev - exp,
		Records:  count,
	}
	if metric == model.MetricPL || metric == model.MetricRevenue {
		res.RevenueBreakdown = e.data.Breakdown(f, model.LedgerRevenue, breakdownLimit)
	}
	if metric == model.MetricPL || metric == model.MetricExpense {
		res.ExpenseBreakdown = e.data.Breakdown(f, model.LedgerExpense, breakdownLimit)
	}
	return res
}

func (e *Executor) profitLoss(req Request) model.QueryResult {
	pl := e.computePL(scope(req.Entities), primaryPeriod(req.Periods), req.Entities.Metric)
	return model.QueryResult{Kind: model.QueryPL, NoData: pl.Records == 0, PL: &pl}
}

func (e *Executor) compareProperties(req Request) (model.QueryResult, error) {
	if len(req.Entities.Properties) < 2 {
		return model.QueryResult{}, eris.New("query: comparison needs at least two properties")
	}
	period := primaryPeriod(req.Periods)

	cmp := model.ComparisonResult{Period: period}
	anyData := false
	for _, prop := range req.Entities.Properties {
		pl := e.computePL(prop, period, model.MetricPL)
		anyData = anyData || pl.Records > 0
		cmp.Properties = append(cmp.Properties, pl)
		cmp.Ranking = append(cmp.Ranking, model.RankedEntry{Name: pl.Property, Value: pl.Net})
	}
	sortRanking(cmp.Ranking, model.RankMax)
	cmp.Best = cmp.Ranking[0].Name
	cmp.Worst = cmp.Ranking[len(cmp.Ranking)-1].Name

	return model.QueryResult{Kind: model.QueryComparison, NoData: !anyData, Comparison: &cmp}, nil
}

func (e *Executor) compareTemporal(req Request) (model.QueryResult, error) {
	if len(req.Periods) < 2 {
		return model.QueryResult{}, eris.New("query: temporal comparison needs at least two periods")
	}
	property := scope(req.Entities)

	tmp := model.TemporalResult{Property: displayName(property)}
	anyData := false
	for _, period := range req.Periods {
		pl := e.computePL(property, period, model.MetricPL)
		anyData = anyData || pl.Records > 0
		tmp.Periods = append(tmp.Periods, pl)
		tmp.Ranking = append(tmp.Ranking, model.RankedEntry{Name: period.Value, Value: pl.Net})
	}
	sortRanking(tmp.Ranking, model.RankMax)
	tmp.Best = tmp.Ranking[0].Name
	tmp.Worst = tmp.Ranking[len(tmp.Ranking)-1].Name

	return model.QueryResult{Kind: model.QueryTemporalComparison, NoData: !anyData, Temporal: &tmp}, nil
}

// multiEntity evaluates every (property, period) pair independently so one
// empty pair never hides the others.
func (e *Executor) multiEntity(req Request) (model.QueryResult, error) {
	if len(req.Entities.Properties) == 0 {
		return model.QueryResult{}, eris.New("query: multi-entity query needs properties")
	}
	periods := req.Periods
	if len(periods) == 0 {
		periods = []model.Period{model.AllPeriods}
	}

	batch := model.BatchResult{}
	anyData := false
	for _, prop := range req.Entities.Properties {
		filterProp := prop
		if filterProp == model.PortfolioEntity {
			filterProp = ""
		}
		for _, period := range periods {
			pl := e.computePL(filterProp, period, req.Entities.Metric)
			anyData = anyData || pl.Records > 0
			batch.Items = append(batch.Items, model.BatchItem{
				Property: pl.Property,
				Period:   period,
				Result:   pl,
				NoData:   pl.Records == 0,
			})
		}
	}
	return model.QueryResult{Kind: model.QueryMultiEntity, NoData: !anyData, Batch: &batch}, nil
}

func (e *Executor) propertyDetail(req Request) (model.QueryResult, error) {
	property := scope(req.Entities)
	if property == "" {
		return model.QueryResult{}, eris.New("query: property detail needs a property")
	}
	rev, exp, count := e.data.Totals(dataset.Filter{Property: property})

	detail := model.PropertyDetailResult{
		Property: property,
		Tenants:  e.data.TenantsOf(property),
		Revenue:  rev,
		Expenses: exp,
		Net:      rev - exp,
		Records:  count,
	}
	return model.QueryResult{Kind: model.QueryPropertyDetail, NoData: count == 0, PropertyDetail: &detail}, nil
}

func (e *Executor) tenantDetail(req Request) (model.QueryResult, error) {
	if len(req.Entities.Tenants) == 0 {
		return model.QueryResult{}, eris.New("query: tenant detail needs a tenant")
	}
	tenant := req.Entities.Tenants[0]
	rev, _, count := e.data.Totals(dataset.Filter{Tenant: tenant})

	detail := model.TenantDetailResult{
		Tenant:     tenant,
		Properties: e.data.PropertiesOf(tenant),
		Revenue:    rev,
		Records:    count,
	}
	return model.QueryResult{Kind: model.QueryTenantDetail, NoData: count == 0, TenantDetail: &detail}, nil
}

// ranking scores every property on the requested target and orders them.
// Target defaults to profit, direction to max.
func (e *Executor) ranking(req Request) model.QueryResult {
	target := req.Entities.RankBy
	if target == "" {
		target = model.RankByProfit
	}
	dir := req.Entities.RankDir
	if dir == "" {
		dir = model.RankMax
	}
	period := primaryPeriod(req.Periods)

	res := model.RankingResult{
		Target:    target,
		Direction: dir,
		Category:  req.Entities.ExpenseCategory,
		Period:    period,
	}
	anyData := false
	for _, prop := range e.data.Properties() {
		value, count := e.score(prop, period, target, req.Entities.ExpenseCategory)
		if count == 0 {
			continue
		}
		anyData = true
		res.Ranking = append(res.Ranking, model.RankedEntry{Name: prop, Value: value})
	}
	if anyData {
		sortRanking(res.Ranking, dir)
		res.Winner = res.Ranking[0]
	}
	return model.QueryResult{Kind: model.QueryRanking, NoData: !anyData, Ranking: &res}
}

func (e *Executor) score(property string, period model.Period, target model.RankTarget, category string) (float64, int) {
	f := dataset.Filter{Property: property, Period: period}
	if target == model.RankByExpense && category != "" {
		var sum float64
		var count int
		for _, r := range e.data.Select(f) {
			if r.LedgerType != model.LedgerExpense || !strings.EqualFold(r.LedgerCategory, category) {
				continue
			}
			sum += r.Amount
			count++
		}
		return sum, count
	}

	rev, exp, count := e.data.Totals(f)
	switch target {
	case model.RankByRevenue:
		return rev, count
	case model.RankByExpense:
		return exp, count
	default:
		return rev - exp, count
	}
}

func (e *Executor) summary() model.QueryResult {
	s := e.data.Summary()
	return model.QueryResult{Kind: model.QuerySummary, NoData: s.Records == 0, Summary: &s}
}

// sortRanking orders entries best-first for the direction, breaking value
// ties by name for stable output.
func sortRanking(entries []model.RankedEntry, dir model.RankDirection) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			if dir == model.RankMin {
				return entries[i].Value < entries[j].Value
			}
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Name < entries[j].Name
	})
}
