package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bellilty/real-estate-multi-agent/internal/config"
	"github.com/Bellilty/real-estate-multi-agent/internal/conversation"
	"github.com/Bellilty/real-estate-multi-agent/internal/dataset"
	"github.com/Bellilty/real-estate-multi-agent/internal/model"
	"github.com/Bellilty/real-estate-multi-agent/internal/nlp"
	"github.com/Bellilty/real-estate-multi-agent/internal/pipeline"
)

type cannedClassifier struct{ intent model.Intent }

func (c cannedClassifier) Classify(context.Context, string) (nlp.Classification, error) {
	return nlp.Classification{Intent: c.intent, Confidence: model.ConfidenceHigh}, nil
}

type cannedExtractor struct{ entities model.ExtractedEntities }

func (c cannedExtractor) Extract(context.Context, string, model.Intent) (model.ExtractedEntities, error) {
	return c.entities, nil
}

type cannedGenerator struct{ answer string }

func (c cannedGenerator) Generate(context.Context, nlp.GenerateRequest) (string, error) {
	return c.answer, nil
}

func testEnv() *env {
	data := dataset.New([]model.Transaction{
		{Property: "Building 180", Tenant: "Acme Corp", LedgerType: model.LedgerRevenue, LedgerCategory: "rent", Amount: 310188.48, Year: "2024", Quarter: "2024-Q1", Month: "2024-M01"},
		{Property: "Building 180", Tenant: "Acme Corp", LedgerType: model.LedgerExpense, LedgerCategory: "maintenance", Amount: 6590.23, Year: "2024", Quarter: "2024-Q1", Month: "2024-M02"},
	})
	c := &config.Config{
		Anthropic: config.AnthropicConfig{TimeoutSecs: 5},
		Period:    config.PeriodConfig{AnchorYear: 2025},
		Matching:  config.MatchingConfig{AutoResolveThreshold: 0.85, AutoResolveMargin: 0.15, MaxCandidates: 5},
	}
	p := pipeline.New(c, data,
		cannedClassifier{intent: model.IntentPLCalculation},
		cannedExtractor{entities: model.ExtractedEntities{Properties: []string{"Building 180"}, RawPeriods: []string{"2024"}}},
		cannedGenerator{answer: "Net was $303,598.25."},
	)
	return &env{
		Data:     data,
		Pipeline: p,
		Sessions: conversation.NewSessionManager(10),
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(testEnv()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQueryEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(testEnv()))
	defer srv.Close()

	body := `{"query": "what was the pnl for Building 180 in 2024"}`
	resp, err := http.Post(srv.URL+"/v1/query", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got queryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotEmpty(t, got.SessionID)
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, model.OutcomeAnswered, got.Outcome)
	assert.Equal(t, "Net was $303,598.25.", got.Answer)
	require.NotNil(t, got.Result)
	require.NotNil(t, got.Result.PL)
	assert.InDelta(t, 303598.25, got.Result.PL.Net, 0.001)
	assert.NotEmpty(t, got.Steps)
}

func TestQueryEndpointRejectsEmptyQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(testEnv()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/query", "application/json", strings.NewReader(`{"query": "  "}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionHistory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(testEnv()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/sessions/nope/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	post, err := http.Post(srv.URL+"/v1/query", "application/json",
		strings.NewReader(`{"session_id": "s-hist", "query": "pnl for Building 180 in 2024"}`))
	require.NoError(t, err)
	post.Body.Close()

	resp, err = http.Get(srv.URL + "/v1/sessions/s-hist/history")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var hist struct {
		SessionID string                   `json:"session_id"`
		Turns     []model.ConversationTurn `json:"turns"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hist))
	assert.Equal(t, "s-hist", hist.SessionID)
	require.Len(t, hist.Turns, 1)
	assert.Equal(t, "pnl for Building 180 in 2024", hist.Turns[0].Query)
}

func TestDatasetSummaryEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(testEnv()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/dataset/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s model.SummaryResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, 2, s.Records)
	assert.Equal(t, 1, s.PropertyCount)
}
