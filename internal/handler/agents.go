package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/covox/callaudit/internal/models"
	"github.com/covox/callaudit/pkg/response"
)

type agentForm struct {
	AgentName string `json:"agent_name" binding:"required"`
	Email     string `json:"email"`
	AgentCode string `json:"agent_code" binding:"required"`
}

func (h *Handlers) registerAgentRoutes(g *gin.RouterGroup) {
	g.POST("/agents", h.CreateAgent)
	g.GET("/agents", h.ListAgents)
	g.GET("/agents/:id", h.GetAgent)
	g.PUT("/agents/:id", h.UpdateAgent)
	g.DELETE("/agents/:id", h.DeleteAgent)
}

func (h *Handlers) CreateAgent(c *gin.Context) {
	var form agentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Fail(c, response.CodeValidationFailure, err.Error())
		return
	}
	agent, err := models.CreateAgent(h.db, form.AgentName, form.Email, form.AgentCode)
	if err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "agent created", agent)
}

func (h *Handlers) ListAgents(c *gin.Context) {
	agents, err := models.ListAgents(h.db)
	if err != nil {
		response.Fail(c, response.CodePersistenceFailure, "failed to list agents")
		return
	}
	response.Success(c, "", agents)
}

func (h *Handlers) GetAgent(c *gin.Context) {
	id := cast.ToUint(c.Param("id"))
	agent, err := models.GetAgentByID(h.db, id)
	if err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "", agent)
}

func (h *Handlers) UpdateAgent(c *gin.Context) {
	id := cast.ToUint(c.Param("id"))
	var form agentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Fail(c, response.CodeValidationFailure, err.Error())
		return
	}
	if err := models.UpdateAgent(h.db, id, form.AgentName, form.Email, form.AgentCode); err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "agent updated", nil)
}

func (h *Handlers) DeleteAgent(c *gin.Context) {
	id := cast.ToUint(c.Param("id"))
	if err := models.DeleteAgent(h.db, id); err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "agent deleted", nil)
}

