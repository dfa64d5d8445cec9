package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shadow-boy/short-uri-project/internal/service"
)

type RedirectController struct {
	resolver service.ResolverService
}

func NewRedirectController(resolver service.ResolverService) *RedirectController {
	return &RedirectController{
		resolver: resolver,
	}
}

// Redirect handles GET /:slug - the public hot path.
func (rc *RedirectController) Redirect(c *gin.Context) {
	visit := service.Visit{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
		Country:   c.GetHeader("CF-IPCountry"),
	}

	resolution, err := rc.resolver.Resolve(c.Request.Context(), c.Param("slug"), visit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
		return
	}

	switch resolution.Status {
	case service.ResolutionRedirect:
		c.Redirect(http.StatusFound, resolution.DestinationURL)
	case service.ResolutionExpired:
		c.JSON(http.StatusGone, gin.H{
			"error": "short link expired",
		})
	default:
		c.JSON(http.StatusNotFound, gin.H{
			"error": "short link not found",
		})
	}
}
