package httpserver

import (
	"github.com/gin-gonic/gin"

	"gitlab-youtrack-automation/pkg/response"
)

// listRules returns the routing table
// @Summary List rules
// @Description Operation names configured per GitLab event kind and bucket.
// @Tags Rules
// @Produce json
// @Success 200 {object} response.Resp
// @Failure 503 {object} response.Resp "Rules not loaded"
// @Router /api/v1/rules [get]
func (srv HTTPServer) listRules(c *gin.Context) {
	if srv.rules == nil {
		response.ServiceUnavailable(c, "rules not loaded")
		return
	}
	response.OK(c, srv.rules.Rules())
}
