package model

// LedgerType classifies a transaction as money in or money out.
type LedgerType string

const (
	LedgerRevenue LedgerType = "revenue"
	LedgerExpense LedgerType = "expense"
)

// Transaction is one immutable row of the property ledger. The dataset is
// loaded once at process start and never mutated by the pipeline.
type Transaction struct {
	Entity         string     `csv:"entity_name" json:"entity_name"`
	Property       string     `csv:"property_name" json:"property_name"`
	Tenant         string     `csv:"tenant_name" json:"tenant_name"`
	LedgerType     LedgerType `csv:"ledger_type" json:"ledger_type"`
	LedgerCategory string     `csv:"ledger_category" json:"ledger_category"`
	Amount         float64    `csv:"amount" json:"amount"`
	Year           string     `csv:"year" json:"year"`
	Quarter        string     `csv:"quarter" json:"quarter"`
	Month          string     `csv:"month" json:"month"`
}
