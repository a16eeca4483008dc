package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/pflag"

	"gitlab-youtrack-automation/config"
	_ "gitlab-youtrack-automation/docs" // Swagger docs
	"gitlab-youtrack-automation/internal/automation"
	"gitlab-youtrack-automation/internal/definition"
	"gitlab-youtrack-automation/internal/httpserver"
	"gitlab-youtrack-automation/internal/tracker"
	"gitlab-youtrack-automation/internal/tracker/youtrack"
	"gitlab-youtrack-automation/internal/webhook"
	"gitlab-youtrack-automation/pkg/log"
)

// @title       GitLab YouTrack Automation API
// @description Runs declarative YouTrack operations in response to GitLab webhooks.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	var (
		configPath = pflag.String("config", "", "path to config.yaml (default: search ./config, ., /etc/app/)")
		rulesPath  = pflag.String("rules", "", "path to the rules document (overrides rules.path)")
		validate   = pflag.Bool("validate", false, "load and validate the rules, print the routing table and exit")
		ngrokAPI   = pflag.String("ngrok-api", "", "ngrok local API base URL used to print the public webhook URL")
	)
	pflag.Parse()

	// 1. Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}
	if *rulesPath != "" {
		cfg.Rules.Path = *rulesPath
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Rules
	rules, err := config.LoadRules(cfg.Rules.Path)
	if err != nil {
		logger.Fatalf(ctx, "Failed to read rules: %v", err)
	}
	table, err := definition.Load(rules)
	if err != nil {
		logger.Fatalf(ctx, "Invalid rules in %s: %v", rules.File(), err)
	}
	logger.Infof(ctx, "Loaded %d routed operation(s) from %s", table.Len(), rules.File())

	if *validate {
		printRoutes(os.Stdout, table)
		return
	}

	logger.Info(ctx, "Starting GitLab YouTrack automation...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "YouTrack URL: %s", cfg.YouTrack.URL)

	// 4. Tracker worker
	client := youtrack.NewClient(youtrack.Config{
		URL:           cfg.YouTrack.URL,
		Token:         cfg.YouTrack.Token,
		Timeout:       cfg.YouTrack.RequestTimeout,
		RetryAttempts: cfg.YouTrack.RetryAttempts,
		RetryDelay:    cfg.YouTrack.RetryDelay,
		RatePerSec:    cfg.YouTrack.RatePerSec,
	})
	worker := tracker.NewWorker(youtrack.New(client, cfg.YouTrack.PageSize, logger), cfg.Automation.QueueSize, logger)
	worker.Start()
	defer worker.Stop()

	// 5. Automation
	automationUC := automation.New(table, worker, logger)

	var webhookHandler httpserver.WebhookHandler
	var gitlabHandler *webhook.Handler
	if cfg.Webhook.Enabled {
		gitlabHandler = webhook.NewHandler(automationUC, webhook.Config{
			Security: webhook.SecurityConfig{
				Secret:          cfg.Webhook.Secret,
				AllowedIPs:      cfg.Webhook.AllowedIPs,
				RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
			},
			DedupTTL:     cfg.Webhook.DedupTTL,
			EventTimeout: cfg.Automation.EventTimeout,
		}, logger)
		webhookHandler = gitlabHandler
		if cfg.Webhook.Secret == "" {
			logger.Warn(ctx, "webhook.secret is empty: every GitLab delivery will be rejected")
		}
	} else {
		logger.Warn(ctx, "GitLab webhook disabled by webhook.enabled=false")
	}

	if *ngrokAPI != "" {
		go logPublicWebhookURL(ctx, logger, *ngrokAPI)
	}

	// 6. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
		Rules:          automationUC,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 7. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	if gitlabHandler != nil {
		logger.Info(ctx, "Waiting for in-flight events...")
		gitlabHandler.Wait()
	}
	logger.Info(ctx, "Server stopped gracefully")
}

func printRoutes(w io.Writer, table *definition.Table) {
	summary := table.Summary()
	for _, kind := range definition.EventKinds() {
		buckets, ok := summary[kind]
		if !ok {
			continue
		}
		for _, bucket := range slices.Sorted(maps.Keys(buckets)) {
			if names := buckets[bucket]; len(names) > 0 {
				fmt.Fprintf(w, "%s/%s: %v\n", kind, bucket, names)
			}
		}
	}
}
