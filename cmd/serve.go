package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP question-answering API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(e),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newRouter(e *env) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/query", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID string `json:"session_id"`
			Query     string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}

		res := e.runQuery(r.Context(), req.SessionID, req.Query)
		writeJSON(w, http.StatusOK, queryResponse{
			SessionID: res.SessionID,
			RunID:     res.State.RunID,
			Outcome:   res.State.Outcome,
			Intent:    res.State.Intent,
			Answer:    res.State.Answer,
			Result:    res.State.Result,
			Steps:     res.State.Steps,
		})
	})

	r.Get("/v1/sessions/{id}/history", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := e.Sessions.Lookup(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		sess.Lock()
		turns := sess.Context().Turns()
		sess.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": sess.ID,
			"turns":      turns,
		})
	})

	r.Get("/v1/dataset/summary", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, e.Data.Summary())
	})

	return r
}

type queryResponse struct {
	SessionID string             `json:"session_id"`
	RunID     string             `json:"run_id"`
	Outcome   model.Outcome      `json:"outcome"`
	Intent    model.Intent       `json:"intent,omitempty"`
	Answer    string             `json:"answer"`
	Result    *model.QueryResult `json:"result,omitempty"`
	Steps     []model.StepResult `json:"steps"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
