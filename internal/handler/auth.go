package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/covox/callaudit/internal/models"
	"github.com/covox/callaudit/pkg/logger"
	"github.com/covox/callaudit/pkg/middleware"
	"github.com/covox/callaudit/pkg/response"
)

type userForm struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

type loginForm struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) registerUserRoutes(g *gin.RouterGroup) {
	g.POST("/auth/register", h.RegisterUser)
	g.POST("/auth/login", h.Login)
	g.POST("/auth/logout", h.Logout)
	g.GET("/auth/me", h.Me)

	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
	g.PUT("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser)
}

func (h *Handlers) RegisterUser(c *gin.Context) {
	var form userForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Fail(c, response.CodeValidationFailure, err.Error())
		return
	}
	user, err := models.CreateUser(h.db, form.Name, form.Email, form.Password)
	if err != nil {
		failFromModelErr(c, err)
		return
	}
	logger.Info("user created", zap.Uint("userId", user.ID), zap.String("email", user.Email))
	response.Success(c, "user created", user)
}

func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := models.ListUsers(h.db)
	if err != nil {
		response.Fail(c, response.CodePersistenceFailure, "failed to list users")
		return
	}
	response.Success(c, "", users)
}

func (h *Handlers) GetUser(c *gin.Context) {
	id := cast.ToUint(c.Param("id"))
	user, err := models.GetUserByID(h.db, id)
	if err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "", user)
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	id := cast.ToUint(c.Param("id"))
	var form userForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Fail(c, response.CodeValidationFailure, err.Error())
		return
	}
	if err := models.UpdateUser(h.db, id, form.Name, form.Email, form.Password); err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "user updated", nil)
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	id := cast.ToUint(c.Param("id"))
	if err := models.DeleteUser(h.db, id); err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "user deleted", nil)
}

func (h *Handlers) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Fail(c, response.CodeValidationFailure, err.Error())
		return
	}
	user, err := models.GetUserByEmail(h.db, form.Email)
	if err != nil || !models.CheckPassword(user, form.Password) {
		response.Fail(c, response.CodeValidationFailure, "invalid email or password")
		return
	}
	if !user.Enabled {
		response.Fail(c, response.CodeValidationFailure, "account disabled")
		return
	}
	models.Login(c, user)
	if err := models.SetLastLogin(h.db, user); err != nil {
		logger.Warn("failed to stamp last login", zap.Uint("userId", user.ID), zap.Error(err))
	}
	response.Success(c, "login ok", user)
}

func (h *Handlers) Logout(c *gin.Context) {
	models.Logout(c)
	response.Success(c, "logout ok", nil)
}

// Me returns the session's user, resolved through the injected connection.
func (h *Handlers) Me(c *gin.Context) {
	user := models.CurrentUser(c, middleware.GetDB(c))
	if user == nil {
		response.Fail(c, response.CodeValidationFailure, "not signed in")
		return
	}
	response.Success(c, "", user)
}

// failFromModelErr maps model sentinels onto API failure codes.
func failFromModelErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrAgentNotFound),
		errors.Is(err, models.ErrCallNotFound),
		errors.Is(err, models.ErrEntryNotFound):
		response.Fail(c, response.CodeNotFound, err.Error())
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrAgentCodeTaken):
		response.Fail(c, response.CodeValidationFailure, err.Error())
	default:
		response.Fail(c, response.CodePersistenceFailure, err.Error())
	}
}
