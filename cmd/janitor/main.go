// Command janitor periodically deletes expired password reset tokens.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storerating/internal/config"
	"storerating/internal/metrics"
	"storerating/internal/model"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		os.Exit(1)
	}
	repo, err := model.InitRepository(&cfg)
	if err != nil || repo == nil {
		logrus.WithError(err).Error("failed to initialise repository")
		os.Exit(1)
	}

	if cfg.JanitorRunOnce {
		if _, err := sweep(context.Background(), repo, time.Now()); err != nil {
			os.Exit(1)
		}
		return
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(cfg.ResetCleanupSchedule, func() {
		_, _ = sweep(context.Background(), repo, time.Now())
	}); err != nil {
		logrus.WithError(err).WithField("schedule", cfg.ResetCleanupSchedule).Error("invalid cleanup schedule")
		os.Exit(1)
	}
	c.Start()
	logrus.WithField("schedule", cfg.ResetCleanupSchedule).Info("janitor started")

	// JANITOR_METRICS_PORT 为空时不暴露指标
	var metricsServer *http.Server
	if cfg.JanitorMetricsPort != "" {
		gin.SetMode(gin.ReleaseMode)
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf("0.0.0.0:%s", cfg.JanitorMetricsPort),
			Handler:           newMetricsRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logrus.WithField("host", metricsServer.Addr).Info("janitor metrics listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.WithError(err).Error("janitor metrics server failed")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("metrics server shutdown failed")
		}
	}
	logrus.Info("janitor stopped")
}

// newMetricsRouter serves the process's Prometheus registry.
func newMetricsRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	return r
}

// sweep removes reset tokens that expired before now.
func sweep(ctx context.Context, repo model.Repository, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	removed, err := repo.DeleteExpiredPasswordResets(ctx, now)
	if err != nil {
		logrus.WithError(err).Error("failed to delete expired password resets")
		return 0, err
	}
	metrics.ObserveExpiredResetsRemoved(removed)
	logrus.WithField("removed", removed).Info("expired password resets deleted")
	return removed, nil
}
