package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "storefront-service/errors"
	"storefront-service/middleware"
	"storefront-service/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Address   string `json:"address" binding:"required"`
}

type updateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Address   string `json:"address"`
}

// Register creates a new account. The only endpoint on the user surface that
// does not require a session.
func (uc *UserController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Render(c, apperrors.Validation("Missing required fields"))
		return
	}

	user, svcErr := uc.users.Register(c.Request.Context(), services.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Address:   req.Address,
	})
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, user.Public())
}

// Get returns the authenticated user's own profile.
func (uc *UserController) Get(c *gin.Context) {
	email, ok := uc.ownEmail(c)
	if !ok {
		return
	}

	user, svcErr := uc.users.Get(c.Request.Context(), email)
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// Update applies partial profile changes to the authenticated user's record.
func (uc *UserController) Update(c *gin.Context) {
	email, ok := uc.ownEmail(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Render(c, apperrors.Validation("Missing fields to update"))
		return
	}

	user, svcErr := uc.users.UpdateProfile(c.Request.Context(), email, services.UpdateProfileRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Address:   req.Address,
	})
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// Delete removes the authenticated user's own account.
func (uc *UserController) Delete(c *gin.Context) {
	email, ok := uc.ownEmail(c)
	if !ok {
		return
	}

	if svcErr := uc.users.Delete(c.Request.Context(), email); svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ownEmail checks that the email in the path belongs to the session. A valid
// session acting on somebody else's account is forbidden, not unauthorized.
func (uc *UserController) ownEmail(c *gin.Context) (string, bool) {
	email := c.Param("email")
	if email != middleware.SessionEmail(c) {
		apperrors.Render(c, apperrors.Forbidden())
		return "", false
	}
	return email, true
}
