package conversation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

func turnFor(property, periodValue string) model.ConversationTurn {
	var period model.Period
	switch {
	case len(periodValue) == 4:
		period = model.Period{Kind: model.PeriodYear, Value: periodValue}
	case periodValue == "":
	default:
		period = model.Period{Kind: model.PeriodQuarter, Value: periodValue}
	}
	turn := model.ConversationTurn{
		Query:    "what was the pnl for " + property,
		Intent:   model.IntentPLCalculation,
		Entities: model.ExtractedEntities{Properties: []string{property}},
		Answer:   "answer",
		At:       time.Now(),
	}
	if period.Value != "" {
		turn.Periods = []model.Period{period}
	}
	return turn
}

func TestContextEviction(t *testing.T) {
	t.Parallel()

	ctx := NewContext(3)
	for i := 0; i < 5; i++ {
		ctx.Append(turnFor(fmt.Sprintf("Building %d", i), "2024"))
	}

	require.Equal(t, 3, ctx.Len())
	turns := ctx.Turns()
	assert.Equal(t, "what was the pnl for Building 2", turns[0].Query)
	assert.Equal(t, "what was the pnl for Building 4", turns[2].Query)
}

func TestContextLastEntitiesEmpty(t *testing.T) {
	t.Parallel()

	ctx := NewContext(5)
	entities, periods := ctx.LastEntities()
	assert.True(t, entities.IsEmpty())
	assert.Empty(t, periods)
	assert.Empty(t, ctx.MostRecentQuery())
	assert.Empty(t, ctx.LastYear())
}

func TestContextLastYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		period string
		want   string
	}{
		{name: "year period", period: "2024", want: "2024"},
		{name: "quarter period", period: "2023-Q2", want: "2023"},
		{name: "no period", period: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := NewContext(5)
			ctx.Append(turnFor("Building 180", tt.period))
			assert.Equal(t, tt.want, ctx.LastYear())
		})
	}
}

func TestResolveStandaloneWithoutHistory(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	res := r.Resolve("and what about 2025?", NewContext(5))

	assert.False(t, res.IsFollowUp)
	assert.Equal(t, "and what about 2025?", res.Query)
}

func TestResolveNoMarkers(t *testing.T) {
	t.Parallel()

	ctx := NewContext(5)
	ctx.Append(turnFor("Building 180", "2024"))

	res := NewResolver().Resolve("what was the revenue for Harbor Tower in 2023", ctx)
	assert.False(t, res.IsFollowUp)
	assert.Equal(t, "what was the revenue for Harbor Tower in 2023", res.Query)
}

func TestResolveAnaphora(t *testing.T) {
	t.Parallel()

	ctx := NewContext(5)
	ctx.Append(turnFor("Building 180", "2024"))

	res := NewResolver().Resolve("what about its expenses, how did that perform in 2025?", ctx)
	require.True(t, res.IsFollowUp)
	assert.Contains(t, res.Query, "Building 180")
	assert.Empty(t, res.CarryYear, "explicit year in query must not carry the old year")
	assert.False(t, res.ClearTemporalScope)
}

func TestResolveElliptical(t *testing.T) {
	t.Parallel()

	ctx := NewContext(5)
	ctx.Append(turnFor("Building 180", "2024"))

	res := NewResolver().Resolve("and in Q2?", ctx)
	require.True(t, res.IsFollowUp)
	assert.Contains(t, res.Query, "Building 180")
	assert.Equal(t, "2024", res.CarryYear)
}

func TestResolveAggregateOverride(t *testing.T) {
	t.Parallel()

	ctx := NewContext(5)
	ctx.Append(turnFor("Building 180", "2024"))

	res := NewResolver().Resolve("and overall?", ctx)
	require.True(t, res.IsFollowUp)
	assert.True(t, res.ClearTemporalScope)
	assert.Contains(t, res.Query, "Building 180")
}

func TestSessionManagerAcquire(t *testing.T) {
	t.Parallel()

	m := NewSessionManager(10)

	fresh := m.Acquire("")
	require.NotEmpty(t, fresh.ID)

	named := m.Acquire("session-1")
	again := m.Acquire("session-1")
	assert.Same(t, named, again)

	_, ok := m.Lookup("unknown")
	assert.False(t, ok)

	got, ok := m.Lookup("session-1")
	require.True(t, ok)
	assert.Same(t, named, got)
}
