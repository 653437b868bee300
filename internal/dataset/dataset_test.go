package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

func testRecords() []model.Transaction {
	return []model.Transaction{
		{Property: "Building 180", Tenant: "Acme Corp", LedgerType: model.LedgerRevenue, LedgerCategory: "rent", Amount: 150000.00, Year: "2024", Quarter: "2024-Q1", Month: "2024-M01"},
		{Property: "Building 180", Tenant: "Acme Corp", LedgerType: model.LedgerRevenue, LedgerCategory: "parking", Amount: 160188.48, Year: "2024", Quarter: "2024-Q2", Month: "2024-M04"},
		{Property: "Building 180", Tenant: "Acme Corp", LedgerType: model.LedgerExpense, LedgerCategory: "maintenance", Amount: 4000.23, Year: "2024", Quarter: "2024-Q1", Month: "2024-M02"},
		{Property: "Building 180", Tenant: "Acme Corp", LedgerType: model.LedgerExpense, LedgerCategory: "insurance", Amount: 2590.00, Year: "2024", Quarter: "2024-Q3", Month: "2024-M08"},
		{Property: "Building 180", Tenant: "Acme Corp", LedgerType: model.LedgerRevenue, LedgerCategory: "rent", Amount: 50000.00, Year: "2025", Quarter: "2025-Q1", Month: "2025-M01"},
		{Property: "Building 18", Tenant: "Globex", LedgerType: model.LedgerRevenue, LedgerCategory: "rent", Amount: 90000.00, Year: "2024", Quarter: "2024-Q1", Month: "2024-M03"},
		{Property: "Building 18", Tenant: "Globex", LedgerType: model.LedgerExpense, LedgerCategory: "maintenance", Amount: 12000.00, Year: "2024", Quarter: "2024-Q4", Month: "2024-M11"},
	}
}

func TestValueSets(t *testing.T) {
	t.Parallel()

	d := New(testRecords())

	assert.Equal(t, []string{"Building 18", "Building 180"}, d.Properties())
	assert.Equal(t, []string{"Acme Corp", "Globex"}, d.Tenants())
	assert.Equal(t, []string{"2024", "2025"}, d.Years())
}

func TestCanonicalProperty(t *testing.T) {
	t.Parallel()

	d := New(testRecords())

	name, ok := d.CanonicalProperty("building 180")
	require.True(t, ok)
	assert.Equal(t, "Building 180", name)

	_, ok = d.CanonicalProperty("Building 999")
	assert.False(t, ok)
}

func TestTotals(t *testing.T) {
	t.Parallel()

	d := New(testRecords())

	tests := []struct {
		name    string
		filter  Filter
		wantRev float64
		wantExp float64
		wantN   int
	}{
		{
			name:    "property and year",
			filter:  Filter{Property: "Building 180", Period: model.Period{Kind: model.PeriodYear, Value: "2024"}},
			wantRev: 310188.48,
			wantExp: 6590.23,
			wantN:   4,
		},
		{
			name:    "case insensitive property",
			filter:  Filter{Property: "BUILDING 180", Period: model.Period{Kind: model.PeriodYear, Value: "2024"}},
			wantRev: 310188.48,
			wantExp: 6590.23,
			wantN:   4,
		},
		{
			name:    "quarter filter",
			filter:  Filter{Property: "Building 180", Period: model.Period{Kind: model.PeriodQuarter, Value: "2024-Q1"}},
			wantRev: 150000.00,
			wantExp: 4000.23,
			wantN:   2,
		},
		{
			name:    "all periods is no temporal filter",
			filter:  Filter{Property: "Building 180", Period: model.AllPeriods},
			wantRev: 360188.48,
			wantExp: 6590.23,
			wantN:   5,
		},
		{
			name:   "zero matches",
			filter: Filter{Property: "Building 180", Period: model.Period{Kind: model.PeriodYear, Value: "2010"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rev, exp, n := d.Totals(tt.filter)
			assert.InDelta(t, tt.wantRev, rev, 1e-9)
			assert.InDelta(t, tt.wantExp, exp, 1e-9)
			assert.Equal(t, tt.wantN, n)
		})
	}
}

func TestBreakdown(t *testing.T) {
	t.Parallel()

	d := New(testRecords())

	br := d.Breakdown(Filter{Property: "Building 180", Period: model.Period{Kind: model.PeriodYear, Value: "2024"}}, model.LedgerRevenue, 10)
	require.Len(t, br, 2)
	assert.Equal(t, "parking", br[0].Category)
	assert.InDelta(t, 160188.48, br[0].Amount, 1e-9)
	assert.Equal(t, "rent", br[1].Category)

	br = d.Breakdown(Filter{}, model.LedgerExpense, 1)
	require.Len(t, br, 1)
	assert.Equal(t, "maintenance", br[0].Category)
}

func TestTenantAndPropertyLinks(t *testing.T) {
	t.Parallel()

	d := New(testRecords())

	assert.Equal(t, []string{"Acme Corp"}, d.TenantsOf("building 180"))
	assert.Equal(t, []string{"Building 18"}, d.PropertiesOf("Globex"))
}

func TestSummary(t *testing.T) {
	t.Parallel()

	d := New(testRecords())
	s := d.Summary()

	assert.Equal(t, 7, s.Records)
	assert.Equal(t, 2, s.PropertyCount)
	assert.Equal(t, 2, s.TenantCount)
	assert.InDelta(t, s.Revenue-s.Expenses, s.Net, 1e-9)
}

func TestDecodeCSV(t *testing.T) {
	t.Parallel()

	csvData := strings.Join([]string{
		"entity_name,property_name,tenant_name,ledger_type,ledger_category,amount,year,quarter,month",
		"PropCo,Building 180,Acme Corp,revenue,rent,150000.00,2024,2024-Q1,2024-M01",
		"PropCo,Building 180,Acme Corp,expense,maintenance,4000.23,2024,2024-Q1,2024-M02",
	}, "\n")

	records, err := DecodeCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Building 180", records[0].Property)
	assert.Equal(t, model.LedgerRevenue, records[0].LedgerType)
	assert.InDelta(t, 4000.23, records[1].Amount, 1e-9)
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	dsn := t.TempDir() + "/ledger.db"
	ctx := t.Context()

	require.NoError(t, ImportSQLite(ctx, dsn, testRecords()))

	d, err := LoadSQLite(ctx, dsn)
	require.NoError(t, err)

	assert.Equal(t, 7, d.Len())
	assert.Equal(t, []string{"Building 18", "Building 180"}, d.Properties())

	rev, exp, _ := d.Totals(Filter{Property: "Building 180", Period: model.Period{Kind: model.PeriodYear, Value: "2024"}})
	assert.InDelta(t, 310188.48, rev, 1e-6)
	assert.InDelta(t, 6590.23, exp, 1e-6)
}
