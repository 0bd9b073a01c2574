package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/middleware"
	"github.com/opaline/storefront/internal/models"
)

type addToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

func (h *Handlers) AddToCart(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Cart.Add(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "added to cart"})
}

func (h *Handlers) GetCart(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	lines, total, err := h.Cart.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	c.JSON(http.StatusOK, gin.H{"items": lines, "total": total})
}

type updateCartRequest struct {
	// Pointer so an omitted quantity is distinguishable from an explicit
	// zero. Zero removes the item; absent defaults to 1.
	Quantity *int `json:"quantity"`
}

func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if err := h.Cart.UpdateQuantity(c.Request.Context(), userID, itemID, qty); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

func (h *Handlers) RemoveCartItem(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	if err := h.Cart.Remove(c.Request.Context(), userID, itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from cart"})
}

func (h *Handlers) CartCount(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	count, err := h.Cart.Count(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
