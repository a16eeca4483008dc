package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const environmentProduction = "production"

func (srv HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())

	if srv.environment != environmentProduction {
		srv.gin.Use(gin.Logger())
	}
	srv.l.Infof(context.Background(), "HTTP middlewares registered for %s", srv.environment)
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	if srv.webhookHandler != nil {
		srv.gin.POST("/webhook/gitlab", srv.webhookHandler.HandleGitLabWebhook)
		srv.l.Infof(ctx, "GitLab webhook route registered at POST /webhook/gitlab")
	} else {
		srv.l.Infof(ctx, "Webhook handler not configured, skipping GitLab webhook route")
	}

	api := srv.gin.Group("/api/v1")
	api.GET("/rules", srv.listRules)
}
