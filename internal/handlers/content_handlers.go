package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
)

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handlers) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.CreateSubscriber(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "subscribed"})
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

func (h *Handlers) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := models.Message{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.Store.CreateMessage(c.Request.Context(), &m); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "message received"})
}

// HomeContent bundles the public homepage extras: visible testimonials,
// videos, and the running giveaway if any.
func (h *Handlers) HomeContent(c *gin.Context) {
	ctx := c.Request.Context()
	testimonials, err := h.Store.ListTestimonials(ctx, true)
	if err != nil {
		h.respondError(c, err)
		return
	}
	videos, err := h.Store.ListVideos(ctx, true)
	if err != nil {
		h.respondError(c, err)
		return
	}
	giveaway, err := h.Store.GetGiveaway(ctx)
	if err != nil && err != repository.ErrNotFound {
		h.respondError(c, err)
		return
	}
	if testimonials == nil {
		testimonials = []models.Testimonial{}
	}
	if videos == nil {
		videos = []models.Video{}
	}
	c.JSON(http.StatusOK, gin.H{
		"testimonials": testimonials,
		"videos":       videos,
		"giveaway":     giveaway,
	})
}
