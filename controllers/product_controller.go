package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "storefront-service/errors"
	"storefront-service/services"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

type createProductRequest struct {
	Title string `json:"title" binding:"required"`
	Price int64  `json:"price" binding:"required"`
}

type updateProductRequest struct {
	Title string `json:"title"`
	Price *int64 `json:"price"`
}

// Create adds a product to the catalog. Prices are integer cents.
func (pc *ProductController) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Render(c, apperrors.Validation("Missing required fields"))
		return
	}

	product, svcErr := pc.products.Create(c.Request.Context(), req.Title, req.Price)
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Get returns one product.
func (pc *ProductController) Get(c *gin.Context) {
	product, svcErr := pc.products.Get(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Update applies partial changes to a catalog entry.
func (pc *ProductController) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Render(c, apperrors.Validation("Missing fields to update"))
		return
	}

	product, svcErr := pc.products.Update(c.Request.Context(), c.Param("id"), services.UpdateProductRequest{
		Title: req.Title,
		Price: req.Price,
	})
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, product)
}

// List returns the whole catalog.
func (pc *ProductController) List(c *gin.Context) {
	products, svcErr := pc.products.List(c.Request.Context())
	if svcErr != nil {
		apperrors.Render(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, products)
}
