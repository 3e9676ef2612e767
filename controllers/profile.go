package controllers

import (
	"net/http"

	"salonbiz-backend/services"

	"github.com/gin-gonic/gin"
)

type UpdateProfileRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
}

// GetProfile returns the authenticated user.
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := ac.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusOK, serializeUser(user))
}

// UpdateProfile serves PUT and PATCH; only the fields present change.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := ac.auth.UpdateProfile(c.Request.Context(), userID, services.ProfileInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": serializeUser(user)})
}
