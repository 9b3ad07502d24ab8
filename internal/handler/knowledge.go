package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/covox/callaudit/internal/models"
	"github.com/covox/callaudit/pkg/response"
)

type knowledgeForm struct {
	UserID   uint           `json:"user_id" binding:"required"`
	JSONData models.JSONMap `json:"json_data" binding:"required"`
}

type knowledgeUpdateForm struct {
	JSONData models.JSONMap `json:"json_data" binding:"required"`
}

func (h *Handlers) registerKnowledgeRoutes(g *gin.RouterGroup) {
	g.POST("/knowledge", h.CreateKnowledge)
	g.GET("/knowledge", h.ListKnowledge)
	g.GET("/knowledge/:id", h.GetKnowledge)
	g.PUT("/knowledge/:id", h.UpdateKnowledge)
	g.DELETE("/knowledge/:id", h.DeleteKnowledge)
	g.GET("/knowledge/by-user/:id", h.ListKnowledgeByUser)
}

func (h *Handlers) CreateKnowledge(c *gin.Context) {
	var form knowledgeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Fail(c, response.CodeValidationFailure, err.Error())
		return
	}
	entry, err := models.CreateKnowledgeEntry(h.db, form.UserID, form.JSONData)
	if err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "knowledge stored", entry)
}

func (h *Handlers) ListKnowledge(c *gin.Context) {
	entries, err := models.ListKnowledgeEntries(h.db)
	if err != nil {
		response.Fail(c, response.CodePersistenceFailure, "failed to list knowledge entries")
		return
	}
	response.Success(c, "", entries)
}

func (h *Handlers) GetKnowledge(c *gin.Context) {
	id := cast.ToInt64(c.Param("id"))
	entry, err := models.GetKnowledgeEntry(h.db, id)
	if err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "", entry)
}

func (h *Handlers) UpdateKnowledge(c *gin.Context) {
	id := cast.ToInt64(c.Param("id"))
	var form knowledgeUpdateForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Fail(c, response.CodeValidationFailure, err.Error())
		return
	}
	if err := models.UpdateKnowledgeEntry(h.db, id, form.JSONData); err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "knowledge updated", nil)
}

func (h *Handlers) DeleteKnowledge(c *gin.Context) {
	id := cast.ToInt64(c.Param("id"))
	if err := models.DeleteKnowledgeEntry(h.db, id); err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "knowledge deleted", nil)
}

func (h *Handlers) ListKnowledgeByUser(c *gin.Context) {
	userID := cast.ToUint(c.Param("id"))
	if _, err := models.GetUserByID(h.db, userID); err != nil {
		failFromModelErr(c, err)
		return
	}
	entries, err := models.ListKnowledgeByUser(h.db, userID)
	if err != nil {
		response.Fail(c, response.CodePersistenceFailure, "failed to list knowledge entries")
		return
	}
	response.Success(c, "", entries)
}
