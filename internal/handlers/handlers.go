// Package handlers contains the gin HTTP handlers. They stay thin:
// bind, call a service, translate the error.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/config"
	"github.com/opaline/storefront/internal/payments"
	"github.com/opaline/storefront/internal/repository"
	"github.com/opaline/storefront/internal/service"
	"github.com/opaline/storefront/pkg/logger"
	"github.com/opaline/storefront/pkg/metrics"
)

type Handlers struct {
	Cfg      *config.Config
	Store    repository.Store
	Users    *service.UserService
	Products *service.ProductService
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Orders   *service.OrderService
	Payments *service.PaymentService
	Metrics  *metrics.Metrics
}

func New(cfg *config.Config, store repository.Store, users *service.UserService,
	products *service.ProductService, cart *service.CartService,
	wishlist *service.WishlistService, orders *service.OrderService,
	pay *service.PaymentService, m *metrics.Metrics) *Handlers {
	return &Handlers{
		Cfg:      cfg,
		Store:    store,
		Users:    users,
		Products: products,
		Cart:     cart,
		Wishlist: wishlist,
		Orders:   orders,
		Payments: pay,
		Metrics:  m,
	}
}

// respondError maps service and repository sentinels onto HTTP statuses.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrPaymentNotComplete),
		errors.Is(err, service.ErrProductUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, payments.ErrGateway):
		logger.Error("gateway failure", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
	default:
		logger.Error("internal error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
