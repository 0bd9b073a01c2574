package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/models"
)

const messagePageSize = 100

func (h *Handlers) AdminListOrders(c *gin.Context) {
	orders, err := h.Orders.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateOrderStatus force-sets any known status; the customer is
// notified by the service.
func (h *Handlers) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Orders.SetStatus(c.Request.Context(), orderID, req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *Handlers) AdminListPayments(c *gin.Context) {
	payments, err := h.Payments.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// AdminStats aggregates the dashboard counters in one round trip.
func (h *Handlers) AdminStats(c *gin.Context) {
	ctx := c.Request.Context()
	orders, err := h.Store.CountOrders(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	users, err := h.Store.CountUsers(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	subscribers, err := h.Store.CountSubscribers(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	unread, err := h.Store.CountUnreadMessages(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	revenue, err := h.Store.PaidRevenue(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":         orders,
		"users":          users,
		"subscribers":    subscribers,
		"unreadMessages": unread,
		"revenue":        revenue,
	})
}

func (h *Handlers) AdminListMessages(c *gin.Context) {
	messages, err := h.Store.ListMessages(c.Request.Context(), messagePageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *Handlers) AdminDeleteMessage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	if err := h.Store.DeleteMessage(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handlers) AdminListSubscribers(c *gin.Context) {
	subscribers, err := h.Store.ListSubscribers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if subscribers == nil {
		subscribers = []models.Subscriber{}
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers})
}

func (h *Handlers) AdminDeleteSubscriber(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscriber id"})
		return
	}
	if err := h.Store.DeleteSubscriber(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handlers) AdminListSections(c *gin.Context) {
	sections, err := h.Store.ListSections(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sections == nil {
		sections = []models.Section{}
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

type sectionRequest struct {
	SectionName string `json:"sectionName" binding:"required"`
	Visible     *bool  `json:"visible" binding:"required"`
}

func (h *Handlers) AdminSetSection(c *gin.Context) {
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.SetSectionVisibility(c.Request.Context(), req.SectionName, *req.Visible); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "section updated"})
}

// --- testimonials ---

type testimonialRequest struct {
	Author   string  `json:"author" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	VideoURL *string `json:"videoUrl"`
	Image    *string `json:"image"`
	Visible  *bool   `json:"visible"`
}

func (r *testimonialRequest) apply(t *models.Testimonial) {
	t.Author = r.Author
	t.Content = r.Content
	t.VideoURL = r.VideoURL
	t.Image = r.Image
	t.Visible = true
	if r.Visible != nil {
		t.Visible = *r.Visible
	}
}

func (h *Handlers) AdminListTestimonials(c *gin.Context) {
	testimonials, err := h.Store.ListTestimonials(c.Request.Context(), false)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if testimonials == nil {
		testimonials = []models.Testimonial{}
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}

func (h *Handlers) AdminCreateTestimonial(c *gin.Context) {
	var req testimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var t models.Testimonial
	req.apply(&t)
	if err := h.Store.CreateTestimonial(c.Request.Context(), &t); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"testimonial": t})
}

func (h *Handlers) AdminUpdateTestimonial(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid testimonial id"})
		return
	}
	var req testimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t := models.Testimonial{ID: id}
	req.apply(&t)
	if err := h.Store.UpdateTestimonial(c.Request.Context(), &t); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonial": t})
}

func (h *Handlers) AdminDeleteTestimonial(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid testimonial id"})
		return
	}
	if err := h.Store.DeleteTestimonial(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// --- videos ---

type videoRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	VideoURL    string  `json:"videoUrl" binding:"required"`
	Thumbnail   *string `json:"thumbnail"`
	Visible     *bool   `json:"visible"`
}

func (r *videoRequest) apply(v *models.Video) {
	v.Title = r.Title
	v.Description = r.Description
	v.VideoURL = r.VideoURL
	v.Thumbnail = r.Thumbnail
	v.Visible = true
	if r.Visible != nil {
		v.Visible = *r.Visible
	}
}

func (h *Handlers) AdminListVideos(c *gin.Context) {
	videos, err := h.Store.ListVideos(c.Request.Context(), false)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (h *Handlers) AdminCreateVideo(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var v models.Video
	req.apply(&v)
	if err := h.Store.CreateVideo(c.Request.Context(), &v); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"video": v})
}

func (h *Handlers) AdminUpdateVideo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v := models.Video{ID: id}
	req.apply(&v)
	if err := h.Store.UpdateVideo(c.Request.Context(), &v); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"video": v})
}

func (h *Handlers) AdminDeleteVideo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}
	if err := h.Store.DeleteVideo(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// --- giveaway ---

type giveawayRequest struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	EndDate     string  `json:"endDate" binding:"required"`
	Image       *string `json:"image"`
	Visible     *bool   `json:"visible"`
}

func (h *Handlers) AdminSaveGiveaway(c *gin.Context) {
	var req giveawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be RFC3339"})
		return
	}

	g := models.Giveaway{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		EndDate:     endDate,
		Image:       req.Image,
		Visible:     true,
	}
	if req.Visible != nil {
		g.Visible = *req.Visible
	}
	if err := h.Store.SaveGiveaway(c.Request.Context(), &g); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"giveaway": g})
}

func (h *Handlers) AdminDeleteGiveaway(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid giveaway id"})
		return
	}
	if err := h.Store.DeleteGiveaway(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
