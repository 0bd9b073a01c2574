package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/middleware"
	"github.com/opaline/storefront/internal/models"
)

const notificationPageSize = 50

func (h *Handlers) ListNotifications(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	notifications, err := h.Store.ListNotifications(c.Request.Context(), userID, notificationPageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	ok, err := h.Store.MarkNotificationRead(c.Request.Context(), id, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	userID, _, _ := middleware.Identity(c)
	if err := h.Store.MarkAllNotificationsRead(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all marked read"})
}
