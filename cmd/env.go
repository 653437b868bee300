package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Bellilty/real-estate-multi-agent/internal/conversation"
	"github.com/Bellilty/real-estate-multi-agent/internal/dataset"
	"github.com/Bellilty/real-estate-multi-agent/internal/model"
	"github.com/Bellilty/real-estate-multi-agent/internal/nlp"
	"github.com/Bellilty/real-estate-multi-agent/internal/pipeline"
	"github.com/Bellilty/real-estate-multi-agent/pkg/anthropic"
)

// env holds the wired application: one dataset, one pipeline, one session
// manager shared by every command.
type env struct {
	Data     *dataset.Dataset
	Pipeline *pipeline.Pipeline
	Sessions *conversation.SessionManager
}

func initEnv(ctx context.Context) (*env, error) {
	data, err := loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	zap.L().Info("dataset loaded",
		zap.String("driver", cfg.Dataset.Driver),
		zap.String("path", cfg.Dataset.Path),
		zap.Int("records", data.Len()),
		zap.Int("properties", len(data.Properties())),
		zap.Int("tenants", len(data.Tenants())))

	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic key is not configured (REALESTATE_ANTHROPIC_KEY)")
	}
	svc := nlp.NewService(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic, data.Properties(), data.Tenants())

	return &env{
		Data:     data,
		Pipeline: pipeline.New(cfg, data, svc, svc, svc),
		Sessions: conversation.NewSessionManager(cfg.Conversation.Window),
	}, nil
}

func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	switch cfg.Dataset.Driver {
	case "sqlite":
		return dataset.LoadSQLite(ctx, cfg.Dataset.Path)
	case "csv", "":
		return dataset.LoadCSV(cfg.Dataset.Path)
	default:
		return nil, eris.Errorf("unknown dataset driver %q", cfg.Dataset.Driver)
	}
}

// runQuery executes one query in a session, serialized against other
// requests for the same session, and records the turn for follow-ups.
func (e *env) runQuery(ctx context.Context, sessionID, query string) *sessionResult {
	sess := e.Sessions.Acquire(sessionID)
	sess.Lock()
	defer sess.Unlock()

	ws := e.Pipeline.Run(ctx, sess.ID, query, sess.Context())
	sess.Context().Append(pipeline.Turn(ws))

	return &sessionResult{SessionID: sess.ID, State: ws}
}

type sessionResult struct {
	SessionID string
	State     *model.WorkflowState
}
