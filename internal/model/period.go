package model

import "fmt"

// PeriodKind discriminates the canonical temporal filter forms.
type PeriodKind string

const (
	PeriodYear    PeriodKind = "year"
	PeriodQuarter PeriodKind = "quarter"
	PeriodMonth   PeriodKind = "month"
	// PeriodAll means no temporal filter: aggregate across all available
	// periods ("overall", "in total", "all years").
	PeriodAll PeriodKind = "all"
)

// Period is a canonical temporal filter: a year ("2024"), a quarter
// ("2024-Q1"), a month ("2024-M03"), or the all-periods marker.
type Period struct {
	Kind  PeriodKind `json:"kind"`
	Value string     `json:"value"`
}

// AllPeriods is the canonical no-filter period.
var AllPeriods = Period{Kind: PeriodAll, Value: "ALL_PERIODS"}

func (p Period) String() string {
	return p.Value
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Kind == "" && p.Value == ""
}

// InvalidPeriod records a temporal expression that could not be normalized.
// Callers must surface these as validation failures, never drop them.
type InvalidPeriod struct {
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

func (ip InvalidPeriod) Error() string {
	return fmt.Sprintf("invalid period %q: %s", ip.Raw, ip.Reason)
}
