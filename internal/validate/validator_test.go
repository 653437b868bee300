package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bellilty/real-estate-multi-agent/internal/dataset"
	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

func testData() *dataset.Dataset {
	return dataset.New([]model.Transaction{
		{Property: "Building 18", Tenant: "Globex", LedgerType: model.LedgerRevenue, Amount: 1, Year: "2024", Quarter: "2024-Q1", Month: "2024-M01"},
		{Property: "Building 180", Tenant: "Acme Corp", LedgerType: model.LedgerRevenue, Amount: 1, Year: "2024", Quarter: "2024-Q1", Month: "2024-M01"},
		{Property: "Harbor Tower", Tenant: "Initech", LedgerType: model.LedgerExpense, Amount: 1, Year: "2025", Quarter: "2025-Q1", Month: "2025-M01"},
	})
}

func yearPeriod(y string) model.Period {
	return model.Period{Kind: model.PeriodYear, Value: y}
}

func TestValidateExactMatch(t *testing.T) {
	t.Parallel()

	v := New(testData())

	res := v.Validate(model.IntentPLCalculation,
		model.ExtractedEntities{Properties: []string{"harbor tower"}},
		[]model.Period{yearPeriod("2025")}, nil)

	assert.Equal(t, model.ValidationValid, res.Status)
	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Ambiguous)
	assert.Equal(t, []string{"Harbor Tower"}, res.Entities.Properties)
}

func TestValidateExactMatchContainingShorterName(t *testing.T) {
	t.Parallel()

	v := New(testData())

	// "Building 180" contains "Building 18", but nothing extends the
	// mention itself, so the exact match stands.
	res := v.Validate(model.IntentPLCalculation,
		model.ExtractedEntities{Properties: []string{"Building 180"}},
		[]model.Period{yearPeriod("2024")}, nil)

	assert.Equal(t, model.ValidationValid, res.Status)
	assert.Equal(t, []string{"Building 180"}, res.Entities.Properties)
}

func TestValidateUnknownPropertyMissing(t *testing.T) {
	t.Parallel()

	v := New(testData())

	res := v.Validate(model.IntentPLCalculation,
		model.ExtractedEntities{Properties: []string{"Building 999"}},
		nil, nil)

	assert.Equal(t, model.ValidationMissing, res.Status)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, "property", res.Missing[0].Field)
	assert.Equal(t, "Building 999", res.Missing[0].Mention)
	// Suggestions are the full known-name list.
	assert.Equal(t, []string{"Building 18", "Building 180", "Harbor Tower"}, res.Missing[0].Suggestions)
}

func TestValidateOverlappingExactMatchIsAmbiguous(t *testing.T) {
	t.Parallel()

	v := New(testData())

	res := v.Validate(model.IntentPLCalculation,
		model.ExtractedEntities{Properties: []string{"Building 18"}},
		nil, nil)

	assert.Equal(t, model.ValidationAmbiguous, res.Status)
	require.Len(t, res.Ambiguous, 1)
	assert.Equal(t, "Building 18", res.Ambiguous[0].Mention)
	require.Len(t, res.Ambiguous[0].Candidates, 2)
}

func TestValidateSingleEdgeCandidateAutoResolves(t *testing.T) {
	t.Parallel()

	v := New(testData())

	res := v.Validate(model.IntentPLCalculation,
		model.ExtractedEntities{Properties: []string{"Harbor"}},
		nil, nil)

	assert.Equal(t, model.ValidationValid, res.Status)
	assert.Equal(t, []string{"Harbor Tower"}, res.Entities.Properties)
}

func TestValidatePortfolioPhrases(t *testing.T) {
	t.Parallel()

	v := New(testData())

	for _, phrase := range []string{"all properties", "All Buildings", "my portfolio", "PropCo"} {
		res := v.Validate(model.IntentPLCalculation,
			model.ExtractedEntities{Properties: []string{phrase}},
			nil, nil)

		assert.Equal(t, model.ValidationValid, res.Status, phrase)
		assert.Equal(t, []string{model.PortfolioEntity}, res.Entities.Properties, phrase)
	}
}

func TestValidateInvalidPeriodIsMissing(t *testing.T) {
	t.Parallel()

	v := New(testData())

	res := v.Validate(model.IntentPLCalculation,
		model.ExtractedEntities{Properties: []string{"Building 180"}},
		nil,
		[]model.InvalidPeriod{{Raw: "Q5", Reason: "quarter 5 out of range 1-4"}})

	assert.Equal(t, model.ValidationMissing, res.Status)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, "period", res.Missing[0].Field)
	assert.Equal(t, "Q5", res.Missing[0].Mention)
}

func TestValidateMissingTakesPrecedence(t *testing.T) {
	t.Parallel()

	v := New(testData())

	// One unknown property, one ambiguous property: MISSING wins and the
	// ambiguity rides along as supplementary info.
	res := v.Validate(model.IntentPLCalculation,
		model.ExtractedEntities{Properties: []string{"Building 999", "Building 18"}},
		nil, nil)

	assert.Equal(t, model.ValidationMissing, res.Status)
	assert.Len(t, res.Missing, 1)
	assert.Len(t, res.Ambiguous, 1)
}

func TestValidateRequiredFields(t *testing.T) {
	t.Parallel()

	v := New(testData())

	tests := []struct {
		name     string
		intent   model.Intent
		entities model.ExtractedEntities
		periods  []model.Period
		field    string
	}{
		{
			name:    "comparison needs two properties",
			intent:  model.IntentPropertyComparison,
			entities: model.ExtractedEntities{Properties: []string{"Building 180"}},
			periods: []model.Period{yearPeriod("2024")},
			field:   "properties",
		},
		{
			name:    "temporal comparison needs two periods",
			intent:  model.IntentTemporalComparison,
			entities: model.ExtractedEntities{Properties: []string{"Building 180"}},
			periods: []model.Period{yearPeriod("2024")},
			field:   "periods",
		},
		{
			name:   "property details needs a property",
			intent: model.IntentPropertyDetails,
			field:  "property",
		},
		{
			name:   "tenant info needs a tenant",
			intent: model.IntentTenantInfo,
			field:  "tenant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := v.Validate(tt.intent, tt.entities, tt.periods, nil)
			require.Equal(t, model.ValidationMissing, res.Status)
			require.NotEmpty(t, res.Missing)
			assert.Equal(t, tt.field, res.Missing[0].Field)
			assert.NotEmpty(t, res.Missing[0].Suggestions)
		})
	}
}

func TestValidateAmbiguousCountsTowardRequired(t *testing.T) {
	t.Parallel()

	v := New(testData())

	// An ambiguous property still counts as "a property was mentioned": the
	// request routes to disambiguation, not to a missing-property error.
	res := v.Validate(model.IntentPropertyDetails,
		model.ExtractedEntities{Properties: []string{"Building 18"}},
		nil, nil)

	assert.Equal(t, model.ValidationAmbiguous, res.Status)
}
