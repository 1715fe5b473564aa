package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mluqi/km-support/internal/config"
	"github.com/mluqi/km-support/internal/middleware"
	"github.com/mluqi/km-support/internal/service"
	"github.com/mluqi/km-support/pkg/errcode"
	"github.com/mluqi/km-support/pkg/response"
)

// ProvisionSecretHeader authenticates the storefront backend on the
// provisioning endpoint
const ProvisionSecretHeader = "X-Provision-Secret"

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles register request
func (h *AuthHandler) Register(ctx context.Context, c *app.RequestContext) {
	var req service.RegisterRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	user, err := h.authService.Register(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, user)
}

// Login handles login request
func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req service.LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	result, err := h.authService.Login(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// Provision handles storefront account provisioning. The storefront backend
// authenticates with a shared secret header, not a user token.
func (h *AuthHandler) Provision(ctx context.Context, c *app.RequestContext) {
	secret := string(c.GetHeader(ProvisionSecretHeader))
	if secret == "" || secret != config.GlobalConfig.Storefront.ProvisionSecret {
		response.Unauthorized(ctx, c, "invalid provision secret")
		return
	}

	var req service.ProvisionRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	result, err := h.authService.Provision(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// Logout handles logout request
func (h *AuthHandler) Logout(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	if err := h.authService.Logout(ctx, userId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
