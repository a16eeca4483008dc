package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gitlab-youtrack-automation/internal/model"
	"gitlab-youtrack-automation/pkg/log"
)

// WebhookHandler receives GitLab deliveries.
type WebhookHandler interface {
	HandleGitLabWebhook(c *gin.Context)
}

// RulesProvider exposes the loaded routing table.
type RulesProvider interface {
	Rules() map[model.EventKind]map[model.Bucket][]string
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Automation
	webhookHandler WebhookHandler
	rules          RulesProvider
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// WebhookHandler is optional; without it the GitLab route is not registered.
	WebhookHandler WebhookHandler
	Rules          RulesProvider
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.New(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		webhookHandler: cfg.WebhookHandler,
		rules:          cfg.Rules,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
