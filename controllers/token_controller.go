package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "storefront-service/errors"
	"storefront-service/services"
)

type TokenController struct {
	users  *services.UserService
	tokens *services.TokenService
}

func NewTokenController(users *services.UserService, tokens *services.TokenService) *TokenController {
	return &TokenController{users: users, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Create logs a user in: the password is checked against the stored hash and
// a fresh session token is issued.
func (tc *TokenController) Create(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Render(c, apperrors.Validation("Missing required fields"))
		return
	}

	if _, svcErr := tc.users.Authenticate(c.Request.Context(), req.Email, req.Password); svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}

	token, svcErr := tc.tokens.Issue(c.Request.Context(), req.Email)
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, token)
}

// Get looks up a session token by id.
func (tc *TokenController) Get(c *gin.Context) {
	token, svcErr := tc.tokens.Validate(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Extend pushes a live token's expiry forward by one session duration.
func (tc *TokenController) Extend(c *gin.Context) {
	token, svcErr := tc.tokens.Extend(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Delete logs the session out by revoking its token.
func (tc *TokenController) Delete(c *gin.Context) {
	if svcErr := tc.tokens.Revoke(c.Request.Context(), c.Param("id")); svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token deleted successfully"})
}
