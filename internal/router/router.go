package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/shadow-boy/short-uri-project/internal/config"
	"github.com/shadow-boy/short-uri-project/internal/controllers"
	"github.com/shadow-boy/short-uri-project/internal/middleware"
	"github.com/shadow-boy/short-uri-project/internal/service"
)

// Services groups the components the HTTP surface is built from.
type Services struct {
	Auth     service.AuthService
	Links    service.LinkService
	Clicks   service.ClickService
	Resolver service.ResolverService
}

// New assembles the gin engine: public redirect and health routes, the
// login endpoint, and the bearer-gated management API.
func New(cfg *config.Config, log zerolog.Logger, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsCfg))

	authController := controllers.NewAuthController(svc.Auth)
	linkController := controllers.NewLinkController(svc.Links)
	redirectController := controllers.NewRedirectController(svc.Resolver)
	analyticsController := controllers.NewAnalyticsController(svc.Clicks)
	qrcodeController := controllers.NewQRCodeController(cfg.BaseURL)

	generalLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	authLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst)
	redirectLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRedirectRPS), cfg.RateLimitRedirectBurst)

	// Health check endpoint (no rate limiting)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Public redirect - the hot path
	router.GET("/:slug", redirectLimiter.LimitMiddleware(), redirectController.Redirect)

	api := router.Group("/api")
	api.Use(generalLimiter.LimitMiddleware())
	{
		api.POST("/auth/login", authLimiter.LimitMiddleware(), authController.Login)

		api.GET("/qrcode/:slug", qrcodeController.GenerateQRCode)

		// Management routes - require a valid bearer credential
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(svc.Auth))
		{
			protected.POST("/links", linkController.CreateLink)
			protected.GET("/links", linkController.ListLinks)
			protected.GET("/links/:id", linkController.GetLink)
			protected.PUT("/links/:id", linkController.UpdateLink)
			protected.DELETE("/links/:id", linkController.DeleteLink)

			protected.GET("/analytics/:linkId/basic", analyticsController.GetBasic)
			protected.GET("/analytics/:linkId/clicks", analyticsController.GetClicks)
		}
	}

	return router
}
