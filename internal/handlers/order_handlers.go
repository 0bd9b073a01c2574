package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/middleware"
	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/service"
)

type checkoutRequest struct {
	PaymentMethod   string `json:"payment_method" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	BillingAddress  string `json:"billing_address"`
}

// Checkout converts the cart into a pending order. The response carries
// the order so the client can start the chosen payment flow.
func (h *Handlers) Checkout(c *gin.Context) {
	userID, username, _ := middleware.Identity(c)
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BillingAddress == "" {
		req.BillingAddress = req.ShippingAddress
	}

	order, items, err := h.Orders.Checkout(c.Request.Context(), userID, username, service.CheckoutInput{
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.OrdersTotal.Inc()
	}
	c.JSON(http.StatusCreated, gin.H{"order": order, "items": items})
}

func (h *Handlers) ListMyOrders(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	orders, err := h.Orders.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handlers) GetOrder(c *gin.Context) {
	userID, _, role := middleware.Identity(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	order, items, err := h.Orders.Get(c.Request.Context(), userID, role == models.RoleAdmin, orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}
