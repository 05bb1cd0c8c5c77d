package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-transcript/config"
	"github.com/nijaru/yt-transcript/handlers"
	"github.com/nijaru/yt-transcript/logger"
	"github.com/nijaru/yt-transcript/metrics"
	"github.com/nijaru/yt-transcript/middleware"
	"github.com/nijaru/yt-transcript/transcript"
	"github.com/nijaru/yt-transcript/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	log, logCloser, err := logger.New(logger.Options{
		Dir:   cfg.LogDir,
		Level: level,
		JSON:  cfg.IsProduction(),
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logger")
	}
	defer logCloser.Close()

	// Packages logging through the standard logger share its sink.
	logrus.SetOutput(log.Out)
	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(log.GetLevel())

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	client, err := youtube.NewClient(youtube.Config{
		BaseURL:   cfg.YouTube.BaseURL,
		UserAgent: cfg.YouTube.UserAgent,
		Languages: cfg.YouTube.Languages,
		Timeout:   cfg.YouTube.HTTPTimeout,
		RateLimit: cfg.YouTube.RateLimit,
		RateBurst: cfg.YouTube.RateBurst,
	}, youtube.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("Failed to create YouTube client")
	}

	service := transcript.NewService(client,
		transcript.WithTimeout(cfg.TranscriptTimeout),
		transcript.WithMetrics(m),
		transcript.WithLogger(log),
	)

	mux := http.NewServeMux()
	handlers.New(service, cfg.MaxBodyBytes).Register(mux)

	var metricsMiddleware func(http.Handler) http.Handler
	if m != nil {
		mux.Handle("/metrics", m.Handler())
		metricsMiddleware = middleware.Metrics(m, "/", "/health", "/transcript", "/metrics")
	}

	handler := middleware.Chain(mux,
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORS),
		metricsMiddleware,
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr": cfg.Addr(),
			"env":  cfg.Env,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return
	}
	log.Info("Server stopped")
}
