package nlp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Bellilty/real-estate-multi-agent/internal/config"
	"github.com/Bellilty/real-estate-multi-agent/internal/model"
	"github.com/Bellilty/real-estate-multi-agent/internal/resilience"
	"github.com/Bellilty/real-estate-multi-agent/pkg/anthropic"
)

// Service implements the three language interfaces over one Anthropic
// client. All calls run at temperature zero with a bounded retry.
type Service struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	policy    resilience.Policy

	classifySystem []anthropic.SystemBlock
	extractSystem  []anthropic.SystemBlock
}

// NewService builds the service. The property and tenant catalogs are
// baked into the extraction prompt and cached server side.
func NewService(client anthropic.Client, cfg config.AnthropicConfig, properties, tenants []string) *Service {
	return &Service{
		client:         client,
		model:          cfg.Model,
		maxTokens:      cfg.MaxTokens,
		policy:         resilience.PolicyFor(cfg.MaxAttempts),
		classifySystem: anthropic.BuildCachedSystemBlocks(classifySystemPrompt),
		extractSystem:  anthropic.BuildCachedSystemBlocks(extractSystemPrompt(properties, tenants)),
	}
}

func (s *Service) call(ctx context.Context, operation string, system []anthropic.SystemBlock, user string) (*anthropic.MessageResponse, error) {
	zeroTemp := 0.0
	req := anthropic.MessageRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		System:      system,
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
		Temperature: &zeroTemp,
	}

	policy := s.policy
	policy.OnRetry = resilience.RetryLogger("anthropic", operation)
	resp, err := resilience.Retry(ctx, policy, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return s.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrap(err, "nlp: "+operation)
	}
	resp.Usage.LogCost(s.model, operation)
	return resp, nil
}

// Classify asks for the intent. Unparseable output degrades to the
// unsupported intent rather than failing the run.
func (s *Service) Classify(ctx context.Context, query string) (Classification, error) {
	resp, err := s.call(ctx, "classify", s.classifySystem, query)
	if err != nil {
		return Classification{}, err
	}

	var raw struct {
		Intent     string `json:"intent"`
		Confidence string `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &raw); err != nil {
		zap.L().Warn("unparseable classification, treating as unsupported",
			zap.String("query", query),
			zap.Error(err))
		return Classification{Intent: model.IntentUnsupported, Confidence: model.ConfidenceLow}, nil
	}

	return Classification{
		Intent:     model.ParseIntent(raw.Intent),
		Confidence: model.ParseConfidence(raw.Confidence),
	}, nil
}

// Extract pulls entity mentions. Unparseable output degrades to an empty
// extraction, which validation turns into a clarification.
func (s *Service) Extract(ctx context.Context, query string, intent model.Intent) (model.ExtractedEntities, error) {
	user := "Intent: " + string(intent) + "\nQuestion: " + query
	resp, err := s.call(ctx, "extract", s.extractSystem, user)
	if err != nil {
		return model.ExtractedEntities{}, err
	}

	var raw struct {
		Properties      []string `json:"properties"`
		Tenants         []string `json:"tenants"`
		Periods         []string `json:"periods"`
		Metric          string   `json:"metric"`
		RankBy          string   `json:"rank_by"`
		RankDir         string   `json:"rank_dir"`
		ExpenseCategory string   `json:"expense_category"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &raw); err != nil {
		zap.L().Warn("unparseable extraction, treating as empty",
			zap.String("query", query),
			zap.Error(err))
		return model.ExtractedEntities{}, nil
	}

	return model.ExtractedEntities{
		Properties:      raw.Properties,
		Tenants:         raw.Tenants,
		RawPeriods:      raw.Periods,
		Metric:          model.Metric(raw.Metric),
		RankBy:          model.RankTarget(raw.RankBy),
		RankDir:         model.RankDirection(raw.RankDir),
		ExpenseCategory: raw.ExpenseCategory,
	}, nil
}

// Generate renders the structured result as prose. Callers fall back to a
// template on error.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	payload, err := json.Marshal(req.Result)
	if err != nil {
		return "", eris.Wrap(err, "nlp: marshal result")
	}

	system := []anthropic.SystemBlock{{Text: generateSystemPrompt}}
	resp, err := s.call(ctx, "generate", system, generateUserPrompt(req.Query, string(payload)))
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", eris.New("nlp: empty generation")
	}
	return answer, nil
}

// cleanJSON strips markdown fences and extracts the JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
