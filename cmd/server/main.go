package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ignite/formrelay/internal/api"
	"github.com/ignite/formrelay/internal/config"
	"github.com/ignite/formrelay/internal/mailchimp"
	"github.com/ignite/formrelay/internal/mailgun"
	"github.com/ignite/formrelay/internal/pkg/logger"
	"github.com/ignite/formrelay/internal/relay"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("address %s is already in use: %w", addr, err)
	}
	return ln.Close()
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck
	zap.ReplaceGlobals(zl)
	logger.SetRedactPII(cfg.Log.Redact())

	if err := cfg.Validate(); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}
	loc, err := cfg.Forms.Location()
	if err != nil {
		zl.Fatal("invalid timezone", zap.Error(err))
	}

	mg := mailgun.NewClient(cfg.Mailgun)
	mc := mailchimp.NewClient(cfg.Mailchimp)

	svc := relay.NewService(
		relay.NewMailgunNotifier(mg, cfg.Mailgun.From, cfg.Forms.NotifyTo),
		relay.NewMailchimpRegistrar(mc),
		relay.NewMailchimpCampaigns(mc, cfg.Forms.CampaignSubject, loc),
		zl.Named("relay"),
	)

	forms := cfg.Forms.Forms()
	router := api.SetupRoutes(
		forms,
		api.NewHandlers(svc, cfg.Forms.FailOnPartial, zl.Named("api")),
		api.NewHealthChecker(mg, mc, zl.Named("health")),
		zl.Named("http"),
	)
	server := api.NewServer(cfg.Server, router)

	addr := cfg.Server.Addr()
	if err := checkPortAvailable(addr); err != nil {
		zl.Fatal("cannot bind", zap.Error(err))
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		paths := make([]string, 0, len(forms))
		for _, f := range forms {
			paths = append(paths, f.Path)
		}
		zl.Info("starting server",
			zap.String("addr", addr),
			zap.Strings("forms", paths),
			zap.String("mailchimp_server", cfg.Mailchimp.Server),
			zap.String("timezone", loc.String()),
			zap.Bool("fail_on_partial", cfg.Forms.FailOnPartial),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	<-done
	zl.Info("shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown error", zap.Error(err))
	}
}
