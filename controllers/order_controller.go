package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "storefront-service/errors"
	"storefront-service/middleware"
	"storefront-service/services"
)

type OrderController struct {
	checkout *services.CheckoutService
}

func NewOrderController(checkout *services.CheckoutService) *OrderController {
	return &OrderController{checkout: checkout}
}

type checkoutRequest struct {
	Source string `json:"source" binding:"required"`
}

// Create runs checkout on the session user's cart against the supplied
// payment source.
func (oc *OrderController) Create(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Render(c, apperrors.Validation("Missing required fields"))
		return
	}

	order, svcErr := oc.checkout.Checkout(c.Request.Context(), middleware.SessionEmail(c), req.Source)
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get returns one of the session user's orders.
func (oc *OrderController) Get(c *gin.Context) {
	order, svcErr := oc.checkout.GetOrder(c.Request.Context(), middleware.SessionEmail(c), c.Param("id"))
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, order)
}

// List returns all of the session user's orders.
func (oc *OrderController) List(c *gin.Context) {
	orders, svcErr := oc.checkout.ListOrders(c.Request.Context(), middleware.SessionEmail(c))
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, orders)
}
