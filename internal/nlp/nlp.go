// Package nlp holds the language-facing services of the pipeline: intent
// classification, entity extraction, and answer generation. Each sits
// behind a small interface so the orchestrator tests with fakes.
package nlp

import (
	"context"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

// Classification is the intent guess for one query.
type Classification struct {
	Intent     model.Intent
	Confidence model.Confidence
}

// IntentClassifier assigns each query one of the supported intents.
// Malformed upstream output degrades to the unsupported intent; an error
// means the service itself was unreachable.
type IntentClassifier interface {
	Classify(ctx context.Context, query string) (Classification, error)
}

// EntityExtractor pulls structured entity mentions out of a query. The
// output is a guess: validation decides what it is worth.
type EntityExtractor interface {
	Extract(ctx context.Context, query string, intent model.Intent) (model.ExtractedEntities, error)
}

// GenerateRequest carries everything answer generation may draw on. The
// numbers in Result are authoritative; prose only restates them.
type GenerateRequest struct {
	Query  string
	Intent model.Intent
	Result model.QueryResult
}

// ResponseGenerator renders a structured result as natural-language prose.
type ResponseGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
