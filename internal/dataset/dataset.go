// Package dataset holds the read-only in-memory ledger of property
// transactions. It is loaded once at process start and only ever filtered
// and aggregated over; concurrent readers need no locking.
package dataset

import (
	"sort"
	"strings"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

// Dataset is an immutable columnar view over the loaded transactions with
// precomputed value sets for validation.
type Dataset struct {
	records    []model.Transaction
	properties []string
	tenants    []string
	years      []string
}

// New builds a Dataset from loaded records. The slice is owned by the
// Dataset afterwards and must not be mutated by the caller.
func New(records []model.Transaction) *Dataset {
	d := &Dataset{records: records}

	props := map[string]string{}
	tens := map[string]string{}
	years := map[string]struct{}{}
	for _, r := range records {
		if r.Property != "" {
			props[strings.ToLower(r.Property)] = r.Property
		}
		if r.Tenant != "" {
			tens[strings.ToLower(r.Tenant)] = r.Tenant
		}
		if r.Year != "" {
			years[r.Year] = struct{}{}
		}
	}
	for _, v := range props {
		d.properties = append(d.properties, v)
	}
	for _, v := range tens {
		d.tenants = append(d.tenants, v)
	}
	for y := range years {
		d.years = append(d.years, y)
	}
	sort.Strings(d.properties)
	sort.Strings(d.tenants)
	sort.Strings(d.years)

	return d
}

// Len returns the number of loaded records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the loaded records. Callers must not mutate them.
func (d *Dataset) Records() []model.Transaction { return d.records }

// Properties returns the sorted set of known property names.
func (d *Dataset) Properties() []string { return d.properties }

// Tenants returns the sorted set of known tenant names.
func (d *Dataset) Tenants() []string { return d.tenants }

// Years returns the sorted set of years with data.
func (d *Dataset) Years() []string { return d.years }

// CanonicalProperty resolves a case-insensitive property mention to its
// canonical dataset spelling.
func (d *Dataset) CanonicalProperty(name string) (string, bool) {
	return canonical(name, d.properties)
}

// CanonicalTenant resolves a case-insensitive tenant mention.
func (d *Dataset) CanonicalTenant(name string) (string, bool) {
	return canonical(name, d.tenants)
}

func canonical(name string, known []string) (string, bool) {
	for _, k := range known {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

// Filter selects ledger records. Empty fields match everything; name
// matching is case-insensitive; a zero or all-periods Period applies no
// temporal filter.
type Filter struct {
	Property string
	Tenant   string
	Period   model.Period
}

func (f Filter) matches(r model.Transaction) bool {
	if f.Property != "" && !strings.EqualFold(f.Property, r.Property) {
		return false
	}
	if f.Tenant != "" && !strings.EqualFold(f.Tenant, r.Tenant) {
		return false
	}
	switch f.Period.Kind {
	case model.PeriodYear:
		return r.Year == f.Period.Value
	case model.PeriodQuarter:
		return strings.EqualFold(r.Quarter, f.Period.Value)
	case model.PeriodMonth:
		return strings.EqualFold(r.Month, f.Period.Value)
	}
	return true
}

// Select returns all records matching the filter.
func (d *Dataset) Select(f Filter) []model.Transaction {
	var out []model.Transaction
	for _, r := range d.records {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Totals sums revenue and expense amounts over the matching records and
// reports how many records matched.
func (d *Dataset) Totals(f Filter) (revenue, expenses float64, count int) {
	for _, r := range d.records {
		if !f.matches(r) {
			continue
		}
		count++
		switch r.LedgerType {
		case model.LedgerRevenue:
			revenue += r.Amount
		case model.LedgerExpense:
			expenses += r.Amount
		}
	}
	return revenue, expenses, count
}

// Breakdown aggregates matching records of one ledger type by category,
// sorted by descending amount and capped at limit (0 = no cap).
func (d *Dataset) Breakdown(f Filter, lt model.LedgerType, limit int) []model.CategoryAmount {
	byCat := map[string]float64{}
	for _, r := range d.records {
		if r.LedgerType != lt || !f.matches(r) {
			continue
		}
		byCat[r.LedgerCategory] += r.Amount
	}

	out := make([]model.CategoryAmount, 0, len(byCat))
	for cat, amt := range byCat {
		out = append(out, model.CategoryAmount{Category: cat, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TenantsOf lists the tenants occupying a property, sorted.
func (d *Dataset) TenantsOf(property string) []string {
	return d.distinct(Filter{Property: property}, func(r model.Transaction) string { return r.Tenant })
}

// PropertiesOf lists the properties a tenant occupies, sorted.
func (d *Dataset) PropertiesOf(tenant string) []string {
	return d.distinct(Filter{Tenant: tenant}, func(r model.Transaction) string { return r.Property })
}

func (d *Dataset) distinct(f Filter, key func(model.Transaction) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range d.records {
		if !f.matches(r) {
			continue
		}
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Summary computes the dataset-wide overview.
func (d *Dataset) Summary() model.SummaryResult {
	rev, exp, _ := d.Totals(Filter{})
	return model.SummaryResult{
		Records:       len(d.records),
		PropertyCount: len(d.properties),
		TenantCount:   len(d.tenants),
		Years:         d.years,
		Revenue:       rev,
		Expenses:      exp,
		Net:           rev - exp,
	}
}
