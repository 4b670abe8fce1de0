package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "storefront-service/errors"
	"storefront-service/middleware"
	"storefront-service/services"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// Get returns the session user's populated cart.
func (cc *CartController) Get(c *gin.Context) {
	summary, svcErr := cc.cart.Get(c.Request.Context(), middleware.SessionEmail(c))
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddItem puts a product into the cart, merging with an existing line.
func (cc *CartController) AddItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Render(c, apperrors.Validation("Missing required fields"))
		return
	}

	summary, svcErr := cc.cart.AddItem(c.Request.Context(), middleware.SessionEmail(c), req.ProductID, req.Quantity)
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdateItem sets the quantity of an existing cart line.
func (cc *CartController) UpdateItem(c *gin.Context) {
	var req cartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Render(c, apperrors.Validation("Missing required fields"))
		return
	}

	summary, svcErr := cc.cart.UpdateItem(c.Request.Context(), middleware.SessionEmail(c), c.Param("productId"), req.Quantity)
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RemoveItem drops a product from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	summary, svcErr := cc.cart.RemoveItem(c.Request.Context(), middleware.SessionEmail(c), c.Param("productId"))
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}
