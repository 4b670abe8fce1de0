package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"storefront-service/controllers"
	"storefront-service/logger"
	"storefront-service/middleware"
	"storefront-service/services"
)

// Controllers groups the handler sets wired into the router.
type Controllers struct {
	Users    *controllers.UserController
	Tokens   *controllers.TokenController
	Products *controllers.ProductController
	Cart     *controllers.CartController
	Orders   *controllers.OrderController
}

// New builds the gin engine with the full middleware chain and route table.
func New(log *zap.Logger, tokens *services.TokenService, ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(rate.Limit(50), 100, 5*time.Minute)))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "token"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.RequireToken(tokens)

	users := r.Group("/users")
	{
		users.POST("", ctrl.Users.Register)
		users.GET("/:email", auth, ctrl.Users.Get)
		users.PUT("/:email", auth, ctrl.Users.Update)
		users.DELETE("/:email", auth, ctrl.Users.Delete)
	}

	sessions := r.Group("/tokens")
	{
		sessions.POST("", ctrl.Tokens.Create)
		sessions.GET("/:id", ctrl.Tokens.Get)
		sessions.PUT("/:id", ctrl.Tokens.Extend)
		sessions.DELETE("/:id", ctrl.Tokens.Delete)
	}

	products := r.Group("/products")
	{
		products.GET("", ctrl.Products.List)
		products.GET("/:id", ctrl.Products.Get)
		products.POST("", auth, ctrl.Products.Create)
		products.PUT("/:id", auth, ctrl.Products.Update)
	}

	cart := r.Group("/cart", auth)
	{
		cart.GET("", ctrl.Cart.Get)
		cart.POST("/items", ctrl.Cart.AddItem)
		cart.PUT("/items/:productId", ctrl.Cart.UpdateItem)
		cart.DELETE("/items/:productId", ctrl.Cart.RemoveItem)
	}

	orders := r.Group("/orders", auth)
	{
		orders.POST("", ctrl.Orders.Create)
		orders.GET("", ctrl.Orders.List)
		orders.GET("/:id", ctrl.Orders.Get)
	}

	return r
}
