package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gitlab-youtrack-automation/pkg/log"
	"gitlab-youtrack-automation/pkg/retry"
)

var errNoTunnel = errors.New("ngrok has no active tunnels")

// ngrokTunnelsResponse matches the /api/tunnels response from the ngrok local API.
type ngrokTunnelsResponse struct {
	Tunnels []ngrokTunnel `json:"tunnels"`
}

type ngrokTunnel struct {
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

// logPublicWebhookURL prints the URL to paste into the GitLab webhook settings.
func logPublicWebhookURL(ctx context.Context, logger log.Logger, ngrokAPIBase string) {
	publicURL, err := detectNgrokURL(ctx, ngrokAPIBase)
	if err != nil {
		logger.Warnf(ctx, "Could not detect ngrok URL: %v", err)
		return
	}
	logger.Infof(ctx, "GitLab webhook URL: %s/webhook/gitlab", publicURL)
}

// detectNgrokURL queries the ngrok local API and returns the first HTTPS tunnel URL.
// ngrok may still be starting, so the lookup is retried.
func detectNgrokURL(ctx context.Context, ngrokAPIBase string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	cfg := retry.Config{Attempts: 10, Delay: 3 * time.Second, MaxDelay: 3 * time.Second}

	return retry.Do(ctx, cfg, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ngrokAPIBase+"/api/tunnels", nil)
		if err != nil {
			return "", retry.Permanent(fmt.Errorf("failed to create ngrok API request: %w", err))
		}

		resp, err := client.Do(req)
		if err != nil {
			return "", fmt.Errorf("ngrok API not reachable: %w", err)
		}
		defer resp.Body.Close()

		var tunnels ngrokTunnelsResponse
		if err := json.NewDecoder(resp.Body).Decode(&tunnels); err != nil {
			return "", retry.Permanent(fmt.Errorf("failed to decode ngrok API response: %w", err))
		}

		// Prefer HTTPS tunnels
		for _, t := range tunnels.Tunnels {
			if t.Proto == "https" {
				return t.PublicURL, nil
			}
		}
		if len(tunnels.Tunnels) > 0 {
			return tunnels.Tunnels[0].PublicURL, nil
		}
		return "", errNoTunnel
	})
}
