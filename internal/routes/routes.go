// Package routes wires the gin router: public endpoints, the
// authenticated group, and the admin group.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/handlers"
	"github.com/opaline/storefront/internal/middleware"
	"github.com/opaline/storefront/pkg/metrics"
)

func Setup(h *handlers.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.CORS(), middleware.RequestLogger(h.Metrics))

	if h.Cfg.Metrics.Enabled && h.Metrics != nil {
		r.GET(h.Cfg.Metrics.Path, metrics.Handler())
	}
	r.Static("/uploads", h.Cfg.Uploads.Dir)

	v1 := r.Group("/v1")
	{
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/content", h.HomeContent)

		v1.POST("/api/subscribe", h.Subscribe)
		v1.POST("/api/contact", h.Contact)
	}

	secret := []byte(h.Cfg.Auth.JWTSecret)

	authed := v1.Group("")
	authed.Use(middleware.Auth(secret))
	{
		authed.GET("/profile/me", h.Me)

		authed.POST("/cart/items", h.AddToCart)
		authed.GET("/cart", h.GetCart)
		authed.GET("/cart/count", h.CartCount)
		authed.PUT("/cart/items/:id", h.UpdateCartItem)
		authed.DELETE("/cart/items/:id", h.RemoveCartItem)

		authed.POST("/wishlist/items", h.AddToWishlist)
		authed.GET("/wishlist", h.GetWishlist)
		authed.DELETE("/wishlist/items/:id", h.RemoveWishlistItem)

		authed.POST("/checkout", h.Checkout)
		authed.GET("/orders", h.ListMyOrders)
		authed.GET("/orders/:id", h.GetOrder)

		authed.POST("/api/create-payment-intent", h.CreatePaymentIntent)
		authed.POST("/api/confirm-stripe-payment", h.ConfirmStripePayment)
		authed.POST("/api/create-paypal-order", h.CreatePayPalOrder)
		authed.GET("/paypal-success", h.PayPalSuccess)
		authed.GET("/paypal-cancel", h.PayPalCancel)

		authed.GET("/notifications", h.ListNotifications)
		authed.PATCH("/notifications/:id/read", h.MarkNotificationRead)
		authed.POST("/notifications/read-all", h.MarkAllNotificationsRead)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(secret), middleware.AdminOnly())
	{
		admin.GET("/orders", h.AdminListOrders)
		admin.PUT("/orders/:id", h.AdminUpdateOrderStatus)
		admin.GET("/payments", h.AdminListPayments)
		admin.GET("/stats", h.AdminStats)

		admin.GET("/products", h.AdminListProducts)
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)

		admin.GET("/messages", h.AdminListMessages)
		admin.DELETE("/messages/:id", h.AdminDeleteMessage)
		admin.GET("/subscribers", h.AdminListSubscribers)
		admin.DELETE("/subscribers/:id", h.AdminDeleteSubscriber)

		admin.GET("/sections", h.AdminListSections)
		admin.POST("/sections", h.AdminSetSection)

		admin.GET("/testimonials", h.AdminListTestimonials)
		admin.POST("/testimonials", h.AdminCreateTestimonial)
		admin.PUT("/testimonials/:id", h.AdminUpdateTestimonial)
		admin.DELETE("/testimonials/:id", h.AdminDeleteTestimonial)

		admin.GET("/videos", h.AdminListVideos)
		admin.POST("/videos", h.AdminCreateVideo)
		admin.PUT("/videos/:id", h.AdminUpdateVideo)
		admin.DELETE("/videos/:id", h.AdminDeleteVideo)

		admin.POST("/giveaway", h.AdminSaveGiveaway)
		admin.DELETE("/giveaway/:id", h.AdminDeleteGiveaway)

		admin.POST("/upload", h.Upload)
	}

	return r
}
