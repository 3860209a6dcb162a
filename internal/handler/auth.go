package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/chargemap/chargemap/backend-go/internal/account"
	"github.com/chargemap/chargemap/backend-go/internal/api"
)

type AccountService interface {
	Register(ctx context.Context, req account.RegisterRequest) (*account.AuthResult, error)
	Login(ctx context.Context, req account.LoginRequest) (*account.AuthResult, error)
}

type AuthHandler struct {
	accounts AccountService
}

func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var body account.RegisterRequest
	if !bindJSON(c, &body) {
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), body)
	if err != nil {
		errorResponse(c, err, "User not found")
		return
	}

	api.Created(c, api.AuthResponse{
		Message: "User registered successfully",
		Token:   result.Token,
		User:    result.User,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body account.LoginRequest
	if !bindJSON(c, &body) {
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), body)
	if err != nil {
		errorResponse(c, err, "User not found")
		return
	}

	api.Success(c, api.AuthResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}
