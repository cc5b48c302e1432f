package router

import (
	"time"

	"softcart/config"
	"softcart/internal/domain"
	"softcart/internal/handler"
	"softcart/internal/middleware"
	"softcart/internal/repository"
	"softcart/internal/service"
	"softcart/internal/ws"
	"softcart/pkg/cloudinary"
	"softcart/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, provider payment.Provider) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))
	r.Use(middleware.Identity(&cfg.JWT))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	wheelRepo := repository.NewWheelRepository(db)
	spinRepo := repository.NewSpinRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	licenseRepo := repository.NewLicenseRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	winnerHub := ws.NewWinnerHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo, cartRepo)
	spinSvc := service.NewSpinService(db, wheelRepo, spinRepo, auditRepo, winnerHub)
	couponSvc := service.NewCouponService(spinRepo)
	wheelSvc := service.NewWheelService(wheelRepo, spinRepo)
	catalogSvc := service.NewCatalogService(productRepo, cloud)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	checkoutSvc := service.NewCheckoutService(db, cfg, productRepo, orderRepo, licenseRepo, paymentRepo, cartRepo, auditRepo, couponSvc, provider)
	paymentSvc := service.NewPaymentService(db, orderRepo, paymentRepo, licenseRepo, webhookRepo, auditRepo, provider)
	orderSvc := service.NewOrderService(orderRepo, licenseRepo, auditRepo)
	licenseSvc := service.NewLicenseService(licenseRepo, auditRepo)

	// periodic sweep of licenses past their expiry
	go func() {
		licenseSvc.ExpireOverdue()
		for range time.Tick(6 * time.Hour) {
			licenseSvc.ExpireOverdue()
		}
	}()

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, auditRepo)
	spinHandler := handler.NewSpinHandler(spinSvc)
	couponHandler := handler.NewCouponHandler(couponSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	cartHandler := handler.NewCartHandler(cartSvc)
	orderHandler := handler.NewOrderHandler(orderSvc, checkoutSvc, paymentSvc)
	licenseHandler := handler.NewLicenseHandler(licenseSvc)
	wheelHandler := handler.NewWheelHandler(wheelSvc)
	webhookHandler := handler.NewPaymentWebhookHandler(cfg, paymentSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	// Spins are rate limited harder than the rest of the API; the daily
	// cap and cooldown are the real guard, this just blunts bursts.
	spinLimiter := middleware.RateLimit(middleware.NewInMemoryRateLimiter(10, 60*time.Second))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		// Public storefront: spins and coupons work for anonymous and
		// session visitors as well as logged-in users.
		api.GET("/spin/status", spinHandler.Status)
		api.POST("/spin", spinLimiter, spinHandler.Spin)
		api.POST("/coupons/validate", couponHandler.Validate)

		api.GET("/products", catalogHandler.List)
		api.GET("/products/:slug", catalogHandler.GetBySlug)

		cart := api.Group("/cart")
		{
			cart.GET("", cartHandler.View)
			cart.POST("/items", cartHandler.Add)
			cart.PATCH("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.DELETE("", cartHandler.Clear)
		}

		orders := api.Group("/orders")
		orders.Use(authMw)
		{
			orders.POST("", orderHandler.Checkout)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("/:id/verify-payment", orderHandler.VerifyPayment)
		}

		licenses := api.Group("/licenses")
		licenses.Use(authMw)
		{
			licenses.GET("", licenseHandler.List)
			licenses.POST("/activate", licenseHandler.Activate)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/wheels", wheelHandler.List)
			admin.POST("/wheels", wheelHandler.Create)
			admin.GET("/wheels/:id", wheelHandler.Get)
			admin.PUT("/wheels/:id", wheelHandler.Update)
			admin.POST("/wheels/:id/activate", wheelHandler.Activate)
			admin.POST("/wheels/:id/deactivate", wheelHandler.Deactivate)
			admin.POST("/wheels/:id/prizes", wheelHandler.AddPrize)
			admin.PUT("/prizes/:id", wheelHandler.UpdatePrize)
			admin.DELETE("/prizes/:id", wheelHandler.DeletePrize)
			admin.GET("/wheels/:id/spins", wheelHandler.SpinHistory)

			admin.GET("/products", catalogHandler.ListAll)
			admin.POST("/products", catalogHandler.Create)
			admin.PUT("/products/:id", catalogHandler.Update)
			admin.DELETE("/products/:id", catalogHandler.Delete)
			admin.POST("/products/:id/image", catalogHandler.UploadImage)

			admin.GET("/orders", orderHandler.AdminList)
			admin.GET("/orders/:id", orderHandler.AdminGet)
			admin.POST("/orders/:id/status", orderHandler.UpdateStatus)
			admin.POST("/orders/:id/refund", orderHandler.Refund)
		}

		api.POST("/webhooks/payment", webhookHandler.Handle)
	}

	r.GET("/ws/winners", ws.UpgradeWinnerWS(winnerHub))

	return r
}
