package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/freightlink/match-cli/internal/model"
	"github.com/freightlink/match-cli/internal/pipeline"
	"github.com/freightlink/match-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server for transcript processing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		kb, err := initKnowledge()
		if err != nil {
			return eris.Wrap(err, "init knowledge")
		}
		runner, err := initRunner(kb, st)
		if err != nil {
			return err
		}

		limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst)

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("GET /loads", func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			filter := store.LoadFilter{
				Status:       model.LoadStatus(r.URL.Query().Get("status")),
				FromLocation: r.URL.Query().Get("from"),
				ToLocation:   r.URL.Query().Get("to"),
			}
			loads, err := st.ListLoads(r.Context(), filter)
			if err != nil {
				zap.L().Error("list loads failed", zap.Error(err))
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(loads)
		})

		mux.HandleFunc("POST /process", func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			var transcript model.Transcript
			if err := json.NewDecoder(r.Body).Decode(&transcript); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if len(transcript.Turns) == 0 {
				http.Error(w, `{"error":"transcript has no turns"}`, http.StatusBadRequest)
				return
			}

			result, err := runner.ProcessFromStore(r.Context(), &transcript, pipeline.Options{TopN: 5})
			if err != nil {
				zap.L().Error("processing failed",
					zap.String("transcript_id", transcript.ID),
					zap.Error(err),
				)
				http.Error(w, `{"error":"processing failed"}`, http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(result)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
