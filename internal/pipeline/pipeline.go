// Package pipeline orchestrates one query-interpretation run: follow-up
// resolution, classification, extraction, period normalization, validation,
// disambiguation, execution, and answer formatting. The state graph is
// acyclic, so a run always terminates in a bounded number of steps.
package pipeline

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bellilty/real-estate-multi-agent/internal/config"
	"github.com/Bellilty/real-estate-multi-agent/internal/conversation"
	"github.com/Bellilty/real-estate-multi-agent/internal/dataset"
	"github.com/Bellilty/real-estate-multi-agent/internal/disambig"
	"github.com/Bellilty/real-estate-multi-agent/internal/model"
	"github.com/Bellilty/real-estate-multi-agent/internal/nlp"
	"github.com/Bellilty/real-estate-multi-agent/internal/period"
	"github.com/Bellilty/real-estate-multi-agent/internal/query"
	"github.com/Bellilty/real-estate-multi-agent/internal/validate"
)

// Pipeline wires the deterministic stages around the external language
// services. One Pipeline serves all sessions; per-run state lives in the
// WorkflowState it creates.
type Pipeline struct {
	cfg *config.Config

	classifier nlp.IntentClassifier
	extractor  nlp.EntityExtractor
	generator  nlp.ResponseGenerator

	resolver      *conversation.Resolver
	normalizer    *period.Normalizer
	validator     *validate.Validator
	disambiguator *disambig.Disambiguator
	executor      *query.Executor
}

// New assembles a pipeline over the loaded dataset and the given language
// services.
func New(cfg *config.Config, data *dataset.Dataset, classifier nlp.IntentClassifier, extractor nlp.EntityExtractor, generator nlp.ResponseGenerator) *Pipeline {
	return &Pipeline{
		cfg:           cfg,
		classifier:    classifier,
		extractor:     extractor,
		generator:     generator,
		resolver:      conversation.NewResolver(),
		normalizer:    period.New(cfg.Period.AnchorYear),
		validator:     validate.New(data),
		disambiguator: disambig.New(cfg.Matching),
		executor:      query.New(data),
	}
}

// Run processes one query within a session. The returned state always
// carries an outcome and an answer; err is non-nil only for caller mistakes
// (it never reflects upstream service failures, which degrade to outcomes).
// The caller must hold the session lock for convCtx.
func (p *Pipeline) Run(ctx context.Context, sessionID, userQuery string, convCtx *conversation.Context) (ws *model.WorkflowState) {
	ws = &model.WorkflowState{
		RunID:         uuid.NewString(),
		SessionID:     sessionID,
		OriginalQuery: userQuery,
		Query:         userQuery,
		StartedAt:     time.Now(),
	}
	log := zap.L().With(zap.String("run_id", ws.RunID), zap.String("session_id", sessionID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: panic recovered",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			ws.Outcome = model.OutcomeInternalError
			ws.Answer = internalErrorAnswer
		}
		log.Info("pipeline: run finished",
			zap.String("outcome", string(ws.Outcome)),
			zap.String("intent", string(ws.Intent)),
			zap.Int("steps", len(ws.Steps)),
			zap.Duration("total", time.Since(ws.StartedAt)))
	}()

	log.Info("pipeline: run started", zap.String("query", userQuery))

	// Follow-up resolution is local and cannot fail.
	var carryYear string
	_ = p.step(ws, model.StateResolvingFollowup, func() error {
		res := p.resolver.Resolve(userQuery, convCtx)
		ws.Query = res.Query
		ws.IsFollowUp = res.IsFollowUp
		ws.ClearTemporalScope = res.ClearTemporalScope
		carryYear = res.CarryYear
		return nil
	})

	if err := p.step(ws, model.StateClassifying, func() error {
		callCtx, cancel := p.callContext(ctx)
		defer cancel()
		cls, err := p.classifier.Classify(callCtx, ws.Query)
		if err != nil {
			return err
		}
		ws.Intent = cls.Intent
		ws.Confidence = cls.Confidence
		return nil
	}); err != nil {
		return p.serviceError(ws, err)
	}

	if ws.Intent == model.IntentUnsupported {
		ws.Outcome = model.OutcomeAnswered
		ws.Answer = unsupportedAnswer
		return ws
	}

	if err := p.step(ws, model.StateExtracting, func() error {
		callCtx, cancel := p.callContext(ctx)
		defer cancel()
		entities, err := p.extractor.Extract(callCtx, ws.Query, ws.Intent)
		if err != nil {
			return err
		}
		ws.Entities = entities
		return nil
	}); err != nil {
		return p.serviceError(ws, err)
	}

	p.inheritContext(ws, convCtx)

	_ = p.step(ws, model.StateNormalizingDates, func() error {
		if ws.ClearTemporalScope {
			ws.Periods = []model.Period{model.AllPeriods}
			ws.InvalidPeriods = nil
			return nil
		}
		ws.Periods, ws.InvalidPeriods = p.normalizer.Normalize(ws.Entities.RawPeriods, carryYear)
		return nil
	})

	_ = p.step(ws, model.StateValidating, func() error {
		ws.Validation = p.validator.Validate(ws.Intent, ws.Entities, ws.Periods, ws.InvalidPeriods)
		return nil
	})

	switch ws.Validation.Status {
	case model.ValidationMissing:
		return p.clarify(ws)

	case model.ValidationAmbiguous:
		_ = p.step(ws, model.StateDisambiguating, func() error {
			resolved, residual := p.disambiguator.Resolve(ws.Validation.Entities, ws.Validation.Ambiguous)
			ws.Entities = resolved
			ws.Residual = residual
			return nil
		})
		if len(ws.Residual) > 0 {
			return p.clarify(ws)
		}

	default:
		ws.Entities = ws.Validation.Entities
	}

	if err := p.step(ws, model.StateExecuting, func() error {
		result, err := p.executor.Execute(query.Request{
			Intent:   ws.Intent,
			Entities: ws.Entities,
			Periods:  ws.Periods,
		})
		if err != nil {
			return err
		}
		ws.Result = &result
		return nil
	}); err != nil {
		log.Error("pipeline: execution failed", zap.Error(err))
		ws.Outcome = model.OutcomeInternalError
		ws.Answer = internalErrorAnswer
		return ws
	}

	_ = p.step(ws, model.StateFormatting, func() error {
		callCtx, cancel := p.callContext(ctx)
		defer cancel()
		answer, err := p.generator.Generate(callCtx, nlp.GenerateRequest{
			Query:  ws.Query,
			Intent: ws.Intent,
			Result: *ws.Result,
		})
		if err != nil {
			// A computed result is never discarded over prose.
			log.Warn("pipeline: generation failed, using fallback answer", zap.Error(err))
			ws.Answer = nlp.FallbackAnswer(*ws.Result)
			return nil
		}
		ws.Answer = answer
		return nil
	})

	ws.Outcome = model.OutcomeAnswered
	if ws.Result.NoData {
		ws.Outcome = model.OutcomeNoData
	}
	return ws
}

// Turn projects a finished run into a conversation turn. Every run is
// recorded, so a clarification turn carries whatever entities extraction
// produced, validated or not.
func Turn(ws *model.WorkflowState) model.ConversationTurn {
	return model.ConversationTurn{
		Query:    ws.OriginalQuery,
		Intent:   ws.Intent,
		Entities: ws.Entities,
		Periods:  ws.Periods,
		Answer:   ws.Answer,
		At:       ws.StartedAt,
	}
}

func (p *Pipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.cfg.Anthropic.Timeout()
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// inheritContext fills entities a follow-up left implicit from the previous
// turn. Extracted values always win over inherited ones.
func (p *Pipeline) inheritContext(ws *model.WorkflowState, convCtx *conversation.Context) {
	if !ws.IsFollowUp || convCtx == nil {
		return
	}
	last, lastPeriods := convCtx.LastEntities()

	if len(ws.Entities.Properties) == 0 && len(ws.Entities.Tenants) == 0 {
		ws.Entities.Properties = last.Properties
		ws.Entities.Tenants = last.Tenants
	}
	if len(ws.Entities.RawPeriods) == 0 && !ws.ClearTemporalScope {
		for _, p := range lastPeriods {
			ws.Entities.RawPeriods = append(ws.Entities.RawPeriods, p.Value)
		}
	}
}

func (p *Pipeline) step(ws *model.WorkflowState, state model.State, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	ws.RecordStep(state, d, err)

	if err != nil {
		zap.L().Error("pipeline: step failed",
			zap.String("run_id", ws.RunID),
			zap.String("state", string(state)),
			zap.Int64("duration_ms", d.Milliseconds()),
			zap.Error(err))
	} else {
		zap.L().Debug("pipeline: step complete",
			zap.String("run_id", ws.RunID),
			zap.String("state", string(state)),
			zap.Int64("duration_ms", d.Milliseconds()))
	}
	return err
}

func (p *Pipeline) serviceError(ws *model.WorkflowState, err error) *model.WorkflowState {
	zap.L().Error("pipeline: external service unavailable",
		zap.String("run_id", ws.RunID),
		zap.Error(err))
	ws.Outcome = model.OutcomeServiceError
	ws.Answer = serviceErrorAnswer
	return ws
}

// clarify ends the run with a question back to the user. Clarification runs
// still converge on the formatting step; the message is rendered locally,
// without the generation service.
func (p *Pipeline) clarify(ws *model.WorkflowState) *model.WorkflowState {
	var ambiguous []model.AmbiguousMention
	_ = p.step(ws, model.StateClarifying, func() error {
		ambiguous = ws.Residual
		if len(ambiguous) == 0 {
			ambiguous = ws.Validation.Ambiguous
		}
		return nil
	})
	_ = p.step(ws, model.StateFormatting, func() error {
		ws.Answer = clarificationMessage(ws.Validation.Missing, ambiguous)
		return nil
	})
	ws.Outcome = model.OutcomeClarification
	return ws
}
