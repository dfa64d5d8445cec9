package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shadow-boy/short-uri-project/internal/models"
	"github.com/shadow-boy/short-uri-project/internal/service"
)

type AnalyticsController struct {
	clickService service.ClickService
}

func NewAnalyticsController(clickService service.ClickService) *AnalyticsController {
	return &AnalyticsController{
		clickService: clickService,
	}
}

// GetBasic handles GET /api/analytics/:linkId/basic - total click count.
// A link that never received clicks (or does not exist) reports zero.
func (ac *AnalyticsController) GetBasic(c *gin.Context) {
	linkID := c.Param("linkId")

	total, err := ac.clickService.CountForLink(c.Request.Context(), linkID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, models.BasicAnalyticsResponse{
		LinkID:      linkID,
		TotalClicks: total,
	})
}

// GetClicks handles GET /api/analytics/:linkId/clicks?limit= - recent click
// events, newest first.
func (ac *AnalyticsController) GetClicks(c *gin.Context) {
	linkID := c.Param("linkId")

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	clicks, err := ac.clickService.RecentForLink(c.Request.Context(), linkID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, clicks)
}
