package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opdshelf/opdshelf/internal/library"
)

// AdminController exposes operator actions on the library index.
type AdminController struct {
	index *library.Index
}

func NewAdminController(index *library.Index) *AdminController {
	return &AdminController{index: index}
}

// Refresh drops every cached structure so the next query rebuilds from a
// fresh enumeration.
// POST /admin/refresh
func (ac *AdminController) Refresh(c *gin.Context) {
	ac.index.Invalidate()
	log.Printf("Library caches invalidated via admin refresh")
	c.JSON(http.StatusOK, gin.H{"message": "library caches invalidated"})
}
