package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shadow-boy/short-uri-project/internal/models"
	"github.com/shadow-boy/short-uri-project/internal/service"
)

type LinkController struct {
	linkService service.LinkService
}

func NewLinkController(linkService service.LinkService) *LinkController {
	return &LinkController{
		linkService: linkService,
	}
}

// CreateLink handles POST /api/links
func (lc *LinkController) CreateLink(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
		})
		return
	}

	link, err := lc.linkService.Create(c.Request.Context(), &req, c.GetString("user_id"))
	if err != nil {
		writeLinkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// ListLinks handles GET /api/links
func (lc *LinkController) ListLinks(c *gin.Context) {
	links, err := lc.linkService.List(c.Request.Context())
	if err != nil {
		writeLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// GetLink handles GET /api/links/:id
func (lc *LinkController) GetLink(c *gin.Context) {
	link, err := lc.linkService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// UpdateLink handles PUT /api/links/:id
func (lc *LinkController) UpdateLink(c *gin.Context) {
	var req models.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
		})
		return
	}

	link, err := lc.linkService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// DeleteLink handles DELETE /api/links/:id. Deletion is idempotent, so an
// unknown id still answers ok.
func (lc *LinkController) DeleteLink(c *gin.Context) {
	if err := lc.linkService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// writeLinkError maps registry errors onto HTTP statuses. Anything outside
// the known taxonomy becomes an opaque 500.
func writeLinkError(c *gin.Context, err error) {
	switch {
	case service.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already exists"})
	case errors.Is(err, service.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
