package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/enso-trainer/backend/internal/analytics"
	"github.com/enso-trainer/backend/internal/api"
	"github.com/enso-trainer/backend/internal/content"
	"github.com/enso-trainer/backend/internal/domain/clinicalcase"
	"github.com/enso-trainer/backend/internal/infrastructure/config"
	"github.com/enso-trainer/backend/internal/review"
	"github.com/enso-trainer/backend/internal/scoring"
	"github.com/enso-trainer/backend/internal/service"
	"github.com/enso-trainer/backend/internal/store"

	_ "github.com/enso-trainer/backend/docs" // generated swagger docs
)

// @title           Enso Trainer API
// @version         1.0
// @description     Clinical-judgment trainer — staged cases, confidence calibration, and spaced review of missed decisions.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()

	var logOut io.Writer = os.Stdout
	if cfg.LogFile != "" {
		logOut = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	logger := slog.New(slog.NewJSONHandler(logOut, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cases := []*clinicalcase.Case{content.ACSChestPain()}
	for _, c := range cases {
		if err := c.Validate(); err != nil {
			logger.Error("invalid case content", "case_id", c.ID, "error", err)
			os.Exit(1)
		}
	}

	scheduler := review.NewScheduler(db, logger)
	events := analytics.NewRecorder(db, logger)
	engine := scoring.NewEngine(scoring.DefaultPolicy(), scheduler)
	caseSvc := service.NewCaseService(db, engine, scheduler, events, cases, logger)
	handler := api.NewHandler(caseSvc, scheduler, db, logger, cfg.AccessCode, cfg.GateSigningKey)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → Session → Gate → mux ─────
	root := api.Logging(logger)(api.CORS(api.Session(handler.Gate(mux))))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
