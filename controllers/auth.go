package controllers

import (
	"net/http"

	"salonbiz-backend/services"
	"salonbiz-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthController handles registration, login and the token lifecycle.
type AuthController struct {
	auth   *services.AuthService
	logger *zap.Logger
}

func NewAuthController(auth *services.AuthService, logger *zap.Logger) *AuthController {
	return &AuthController{auth: auth, logger: logger}
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
}

// LoginRequest accepts either the username or the email as identifier.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokensResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user, err := ac.auth.Register(ctx, services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	_, tokens, err := ac.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}

	ac.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    serializeUser(user),
		"tokens":  TokensResponse{Access: tokens.Access, Refresh: tokens.Refresh},
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, tokens, err := ac.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"user":    serializeUser(user),
	})
}

// Refresh rotates the refresh token; the presented one is revoked.
func (ac *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	tokens, err := ac.auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusOK, TokensResponse{Access: tokens.Access, Refresh: tokens.Refresh})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Refresh token is required")
		return
	}
	if err := ac.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
