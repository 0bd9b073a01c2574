package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/middleware"
	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/payments"
	"github.com/opaline/storefront/internal/service"
)

type createIntentRequest struct {
	OrderID int64 `json:"order_id" binding:"required"`
}

// CreatePaymentIntent opens a Stripe PaymentIntent for the order and
// returns the client secret for the browser-side confirmation.
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	intent, err := h.Payments.StripeIntent(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		h.countPaymentErr(models.MethodStripe, err)
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret, "paymentIntentId": intent.ID})
}

type confirmStripeRequest struct {
	OrderID         int64  `json:"order_id" binding:"required"`
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

func (h *Handlers) ConfirmStripePayment(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	var req confirmStripeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Payments.ConfirmStripe(c.Request.Context(), userID, req.OrderID, req.PaymentIntentID); err != nil {
		h.countPaymentErr(models.MethodStripe, err)
		h.respondError(c, err)
		return
	}
	h.countPayment(models.MethodStripe, "completed")
	c.JSON(http.StatusOK, gin.H{"message": "payment confirmed"})
}

type createPayPalRequest struct {
	OrderID int64 `json:"order_id" binding:"required"`
}

// CreatePayPalOrder creates the PayPal payment and hands back the
// approval URL the buyer is redirected to.
func (h *Handlers) CreatePayPalOrder(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	var req createPayPalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pp, err := h.Payments.PayPalPayment(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		h.countPaymentErr(models.MethodPayPal, err)
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approvalUrl": pp.ApprovalURL, "paymentId": pp.ID})
}

// PayPalSuccess finishes the approval redirect: it executes the payment
// and flips the order to paid when PayPal reports it approved.
func (h *Handlers) PayPalSuccess(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	paymentID := c.Query("paymentId")
	payerID := c.Query("PayerID")
	if paymentID == "" || payerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentId and PayerID are required"})
		return
	}
	orderID, err := h.Payments.ExecutePayPal(c.Request.Context(), userID, paymentID, payerID)
	if err != nil {
		h.countPaymentErr(models.MethodPayPal, err)
		h.respondError(c, err)
		return
	}
	h.countPayment(models.MethodPayPal, "completed")
	c.JSON(http.StatusOK, gin.H{"message": "payment completed", "orderId": orderID})
}

// PayPalCancel is the cancel redirect target. The order stays pending and
// unpaid; the buyer can retry or switch methods.
func (h *Handlers) PayPalCancel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "payment cancelled"})
}

func (h *Handlers) countPayment(method, outcome string) {
	if h.Metrics != nil {
		h.Metrics.PaymentsTotal.WithLabelValues(method, outcome).Inc()
	}
}

// countPaymentErr records gateway outcomes only. Ownership and lookup
// failures are the caller's mistake and stay out of the payments metric.
func (h *Handlers) countPaymentErr(method string, err error) {
	switch {
	case errors.Is(err, payments.ErrGateway):
		h.countPayment(method, "error")
	case errors.Is(err, service.ErrPaymentNotComplete):
		h.countPayment(method, "failed")
	}
}
