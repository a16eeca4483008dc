package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gitlab-youtrack-automation/config"
	"gitlab-youtrack-automation/internal/automation"
	"gitlab-youtrack-automation/internal/definition"
	"gitlab-youtrack-automation/internal/model"
	"gitlab-youtrack-automation/internal/tracker"
	"gitlab-youtrack-automation/internal/tracker/youtrack"
	"gitlab-youtrack-automation/internal/webhook"
	"gitlab-youtrack-automation/pkg/log"
)

type replayOptions struct {
	configPath string
	rulesPath  string
	eventType  string
	payload    string
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a stored GitLab webhook payload",
		Long: `Replay parses a GitLab webhook payload from a file (or stdin with "-"),
routes it through the configured rules and applies the resulting YouTrack updates.
With --dry-run issues are searched but no update is sent.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runReplay(ctx, opts, cmd.OutOrStdout(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config.yaml")
	cmd.Flags().StringVar(&opts.rulesPath, "rules", "", "Path to the rules document (overrides rules.path)")
	cmd.Flags().StringVar(&opts.eventType, "event", "", `GitLab event type, e.g. "Merge Request Hook"`)
	cmd.Flags().StringVar(&opts.payload, "payload", "", `Path to the JSON payload, "-" for stdin`)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log updates instead of sending them")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}

func runReplay(ctx context.Context, opts *replayOptions, out io.Writer, in io.Reader) error {
	body, err := readPayload(opts.payload, in)
	if err != nil {
		return err
	}

	event, err := webhook.NewGitLabParser().Parse(opts.eventType, body)
	if errors.Is(err, webhook.ErrIgnored) {
		fmt.Fprintf(out, "ignored: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	event.ID = "replay-" + uuid.NewString()
	event.Source = model.SourceManual

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.rulesPath != "" {
		cfg.Rules.Path = opts.rulesPath
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
	ctx = log.WithTraceID(ctx, event.ID)

	rules, err := config.LoadRules(cfg.Rules.Path)
	if err != nil {
		return err
	}
	table, err := definition.Load(rules)
	if err != nil {
		return fmt.Errorf("invalid rules in %s: %w", rules.File(), err)
	}

	client := youtrack.NewClient(youtrack.Config{
		URL:           cfg.YouTrack.URL,
		Token:         cfg.YouTrack.Token,
		Timeout:       cfg.YouTrack.RequestTimeout,
		RetryAttempts: cfg.YouTrack.RetryAttempts,
		RetryDelay:    cfg.YouTrack.RetryDelay,
		RatePerSec:    cfg.YouTrack.RatePerSec,
	})
	var t tracker.Tracker = youtrack.New(client, cfg.YouTrack.PageSize, logger)
	if opts.dryRun {
		t = tracker.NewDryRun(t, logger)
	}

	worker := tracker.NewWorker(t, 1, logger)
	worker.Start()
	defer worker.Stop()

	output, err := automation.New(table, worker, logger).ProcessEvent(ctx, automation.ProcessEventInput{Event: *event})
	printResults(out, event, output)
	return err
}

func readPayload(path string, in io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(in)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return body, nil
}

func printResults(out io.Writer, event *model.WebhookEvent, output automation.ProcessEventOutput) {
	fmt.Fprintf(out, "%s/%s: %d operation(s)\n", event.Kind, event.Bucket, len(output.Operations))
	for _, op := range output.Operations {
		switch {
		case op.Err != nil:
			fmt.Fprintf(out, "  %s: failed at %s: %v\n", op.Operation, op.State, op.Err)
		case !op.Passed:
			fmt.Fprintf(out, "  %s: skipped by filter-args\n", op.Operation)
		default:
			fmt.Fprintf(out, "  %s: %d issue(s)\n", op.Operation, len(op.Issues))
		}
		for _, issue := range op.Issues {
			if issue.Err != nil {
				fmt.Fprintf(out, "    %s: applied %v, failed: %v\n", issue.Issue, issue.Applied, issue.Err)
				continue
			}
			fmt.Fprintf(out, "    %s: applied %v\n", issue.Issue, issue.Applied)
		}
	}
}
