package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/covox/callaudit/pkg/response"
)

// Health reports readiness: the process is up and the database answers.
func (h *Handlers) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		response.Fail(c, response.CodePersistenceFailure, "database unreachable")
		return
	}
	response.Success(c, "ok", gin.H{
		"status": "healthy",
		"asr":    h.asr.Vendor(),
	})
}
