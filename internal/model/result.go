package model

// QueryKind tags the shape of a QueryResult.
type QueryKind string

const (
	QueryPL                 QueryKind = "pl"
	QueryComparison         QueryKind = "property_comparison"
	QueryTemporalComparison QueryKind = "temporal_comparison"
	QueryMultiEntity        QueryKind = "multi_entity"
	QueryPropertyDetail     QueryKind = "property_detail"
	QueryTenantDetail       QueryKind = "tenant_detail"
	QueryRanking            QueryKind = "ranking"
	QuerySummary            QueryKind = "summary"
)

// CategoryAmount is one row of a ledger-category breakdown.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// PLResult is a single profit-and-loss aggregate: revenue and expense sums
// over the matching records and their difference. Amounts only, no prose.
type PLResult struct {
	Property string  `json:"property"`
	Period   Period  `json:"period"`
	Metric   Metric  `json:"metric"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
	Records  int     `json:"records"`

	RevenueBreakdown []CategoryAmount `json:"revenue_breakdown,omitempty"`
	ExpenseBreakdown []CategoryAmount `json:"expense_breakdown,omitempty"`
}

// RankedEntry is one row in a best-to-worst ordering.
type RankedEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ComparisonResult compares two or more properties over the same period.
type ComparisonResult struct {
	Period     Period        `json:"period"`
	Properties []PLResult    `json:"properties"`
	Ranking    []RankedEntry `json:"ranking"`
	Best       string        `json:"best"`
	Worst      string        `json:"worst"`
}

// TemporalResult compares one scope (property or portfolio) across periods.
type TemporalResult struct {
	Property string        `json:"property"`
	Periods  []PLResult    `json:"periods"`
	Ranking  []RankedEntry `json:"ranking"`
	Best     string        `json:"best"`
	Worst    string        `json:"worst"`
}

// BatchItem is one independently evaluated (property, period) pair.
type BatchItem struct {
	Property string   `json:"property"`
	Period   Period   `json:"period"`
	Result   PLResult `json:"result"`
	NoData   bool     `json:"no_data"`
}

// BatchResult holds the results of a multi-entity query.
type BatchResult struct {
	Items []BatchItem `json:"items"`
}

// PropertyDetailResult describes one property: tenants plus aggregates.
type PropertyDetailResult struct {
	Property string   `json:"property"`
	Tenants  []string `json:"tenants"`
	Revenue  float64  `json:"revenue"`
	Expenses float64  `json:"expenses"`
	Net      float64  `json:"net"`
	Records  int      `json:"records"`
}

// TenantDetailResult describes one tenant: occupied properties plus
// aggregates.
type TenantDetailResult struct {
	Tenant     string   `json:"tenant"`
	Properties []string `json:"properties"`
	Revenue    float64  `json:"revenue"`
	Records    int      `json:"records"`
}

// RankingResult answers analytics queries: max/min of revenue, profit, or
// expense-category totals across the portfolio or within a period.
type RankingResult struct {
	Target    RankTarget    `json:"target"`
	Direction RankDirection `json:"direction"`
	Category  string        `json:"category,omitempty"`
	Period    Period        `json:"period"`
	Ranking   []RankedEntry `json:"ranking"`
	Winner    RankedEntry   `json:"winner"`
}

// SummaryResult is the dataset-wide overview served for general queries.
type SummaryResult struct {
	Records       int      `json:"records"`
	PropertyCount int      `json:"property_count"`
	TenantCount   int      `json:"tenant_count"`
	Years         []string `json:"years"`
	Revenue       float64  `json:"revenue"`
	Expenses      float64  `json:"expenses"`
	Net           float64  `json:"net"`
}

// QueryResult is the structured output of the query executor: exactly one
// shape pointer is set, selected by Kind. NoData marks a well-formed filter
// that matched zero records, which is never conflated with a malformed
// request.
type QueryResult struct {
	Kind   QueryKind `json:"kind"`
	NoData bool      `json:"no_data"`

	PL             *PLResult             `json:"pl,omitempty"`
	Comparison     *ComparisonResult     `json:"comparison,omitempty"`
	Temporal       *TemporalResult       `json:"temporal,omitempty"`
	Batch          *BatchResult          `json:"batch,omitempty"`
	PropertyDetail *PropertyDetailResult `json:"property_detail,omitempty"`
	TenantDetail   *TenantDetailResult   `json:"tenant_detail,omitempty"`
	Ranking        *RankingResult        `json:"ranking,omitempty"`
	Summary        *SummaryResult        `json:"summary,omitempty"`
}
