package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/app/middleware"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

// InterfaceAuthController handles the session endpoints.
type InterfaceAuthController interface {
	Login()
	Me()
	Logout()
}

// AuthController handles the session endpoints.
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController creates an AuthController for one request.
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest is the login body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleAuthFunc returns the gin handler for method.
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "me":
			controller.Me()
		case "logout":
			controller.Logout()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "método inválido", nil)
		}
	}
}

// 1. Login checks the credentials and sets the session cookie
// @Summary  Login
// @Tags     Auth
// @Router   /auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBind, nil)
		return
	}

	authService := c.Container.GetService("auth").(services.InterfaceAuthService)
	result, err := authService.Login(c.Ctx.Request.Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrWrongPassword) {
		logger.WithFields(logger.Fields{"username": req.Username, "ip": c.Ctx.ClientIP()}).Warn("failed login")
		response.Fail(c.Ctx, code.ErrUserPasswordIncorrect, nil)
		return
	}
	if err != nil {
		handleError(c.Ctx, err)
		return
	}

	cfg := c.Container.GetConfig()
	c.Ctx.SetSameSite(http.SameSiteLaxMode)
	c.Ctx.SetCookie(cfg.SessionCookieName, result.Token, int(cfg.JWTExpiry.Seconds()), "/", "", cfg.CookieSecure, true)
	response.Success(c.Ctx, result)
}

// 2. Me returns the current user, or null when anonymous
// @Summary  Current user
// @Tags     Auth
// @Router   /auth/me [get]
func (c *AuthController) Me() {
	a, ok := middleware.ActorFrom(c.Ctx)
	if !ok {
		response.Success(c.Ctx, nil)
		return
	}

	authService := c.Container.GetService("auth").(services.InterfaceAuthService)
	user, err := authService.Me(c.Ctx.Request.Context(), a.UserID)
	if err != nil {
		handleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, user)
}

// 3. Logout clears the session cookie
// @Summary  Logout
// @Tags     Auth
// @Router   /auth/logout [post]
func (c *AuthController) Logout() {
	cfg := c.Container.GetConfig()
	c.Ctx.SetSameSite(http.SameSiteLaxMode)
	c.Ctx.SetCookie(cfg.SessionCookieName, "", -1, "/", "", cfg.CookieSecure, true)
	response.Success(c.Ctx, gin.H{"success": true})
}
