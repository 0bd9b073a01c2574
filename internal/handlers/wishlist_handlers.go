package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/middleware"
	"github.com/opaline/storefront/internal/models"
)

type addToWishlistRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

func (h *Handlers) AddToWishlist(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	var req addToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	added, err := h.Wishlist.Add(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"added": added})
}

func (h *Handlers) GetWishlist(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	lines, err := h.Wishlist.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if lines == nil {
		lines = []models.WishlistLine{}
	}
	c.JSON(http.StatusOK, gin.H{"items": lines})
}

func (h *Handlers) RemoveWishlistItem(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	if err := h.Wishlist.Remove(c.Request.Context(), userID, itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from wishlist"})
}
