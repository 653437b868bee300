package model

// PortfolioEntity is the designated pseudo-entity meaning "all properties
// combined". It is not a literal property name in the dataset; the executor
// treats it as the absence of a property filter.
const PortfolioEntity = "ALL_PROPERTIES"

// Metric narrows a single P&L answer to one side of the ledger.
type Metric string

const (
	MetricPL      Metric = "pnl"
	MetricRevenue Metric = "revenue"
	MetricExpense Metric = "expense"
)

// RankTarget selects what a ranking/analytics query ranks by.
type RankTarget string

const (
	RankByRevenue RankTarget = "revenue"
	RankByProfit  RankTarget = "profit"
	RankByExpense RankTarget = "expense"
)

// RankDirection selects max or min for a ranking query.
type RankDirection string

const (
	RankMax RankDirection = "max"
	RankMin RankDirection = "min"
)

// ExtractedEntities is the structured guess produced by the extraction
// service for one query. It is owned by the current pipeline run and
// replaced, never merged, at each validation and disambiguation step.
type ExtractedEntities struct {
	Properties []string `json:"properties,omitempty"`
	Tenants    []string `json:"tenants,omitempty"`
	// RawPeriods holds the temporal expressions as extracted, before
	// normalization ("Q3", "last year", "2024-M02", "overall").
	RawPeriods []string `json:"raw_periods,omitempty"`

	// Metric is an optional hint narrowing a P&L answer (pnl by default).
	Metric Metric `json:"metric,omitempty"`
	// RankBy and RankDir steer analytics queries (max revenue, min profit).
	RankBy  RankTarget    `json:"rank_by,omitempty"`
	RankDir RankDirection `json:"rank_dir,omitempty"`
	// ExpenseCategory optionally restricts an analytics ranking to a single
	// ledger category ("maintenance", "insurance").
	ExpenseCategory string `json:"expense_category,omitempty"`
}

// Clone returns a deep copy so the validator and disambiguator can replace
// the run's entities without aliasing slices.
func (e ExtractedEntities) Clone() ExtractedEntities {
	out := e
	out.Properties = append([]string(nil), e.Properties...)
	out.Tenants = append([]string(nil), e.Tenants...)
	out.RawPeriods = append([]string(nil), e.RawPeriods...)
	return out
}

// IsEmpty reports whether nothing at all was extracted.
func (e ExtractedEntities) IsEmpty() bool {
	return len(e.Properties) == 0 && len(e.Tenants) == 0 && len(e.RawPeriods) == 0
}
