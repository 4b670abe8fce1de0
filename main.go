package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-service/clients"
	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/logger"
	"storefront-service/receipt"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"
	"storefront-service/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.New(cfg.DataDir, "users", "products", "tokens", "orders")
	if err != nil {
		zlog.Fatal("failed to initialize document store", zap.Error(err))
	}

	users := repository.NewUserRepository(st)
	products := repository.NewProductRepository(st)
	tokens := repository.NewTokenRepository(st)
	orders := repository.NewOrderRepository(st)

	gateway := &clients.StripeGateway{
		Client: clients.New(cfg.Stripe.URL, "Bearer "+cfg.Stripe.Key),
	}
	notifier := &clients.MailgunNotifier{
		Client: clients.New(cfg.Mailgun.URL+"/"+cfg.Mailgun.Domain, clients.BasicAuth("api", cfg.Mailgun.Key)),
		From:   cfg.Mailgun.From,
	}

	renderer, err := receipt.NewRenderer(receipt.AppInfo{
		Name:       cfg.App.Name,
		DomainURL:  cfg.App.DomainURL,
		SupportURL: cfg.App.SupportURL,
	})
	if err != nil {
		zlog.Fatal("failed to parse receipt templates", zap.Error(err))
	}

	userService := services.NewUserService(users, zlog)
	tokenService := services.NewTokenService(tokens, cfg.SessionTTL, zlog)
	productService := services.NewProductService(products, zlog)
	cartService := services.NewCartService(users, products, zlog)
	checkoutService := services.NewCheckoutService(users, orders, cartService, gateway, notifier, renderer, zlog)

	router := routes.New(zlog, tokenService, routes.Controllers{
		Users:    controllers.NewUserController(userService),
		Tokens:   controllers.NewTokenController(userService, tokenService),
		Products: controllers.NewProductController(productService),
		Cart:     controllers.NewCartController(cartService),
		Orders:   controllers.NewOrderController(checkoutService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
