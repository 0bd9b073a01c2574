package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/pkg/logger"
)

// ListProducts serves the storefront catalog: visible products plus the
// homepage section toggles.
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.Products.Catalog(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	sections, err := h.Store.ListSections(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "sections": sections})
}

func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	product, err := h.Products.Get(c.Request.Context(), id, false)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Details     *string `json:"details"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Image       *string `json:"image"`
	Visible     *bool   `json:"visible"`
}

func (r *productRequest) apply(p *models.Product) {
	p.Name = r.Name
	p.Description = r.Description
	p.Details = r.Details
	p.Price = r.Price
	p.Image = r.Image
	p.Visible = true
	if r.Visible != nil {
		p.Visible = *r.Visible
	}
}

// AdminListProducts includes hidden products for the dashboard table.
func (h *Handlers) AdminListProducts(c *gin.Context) {
	products, err := h.Products.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handlers) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var product models.Product
	req.apply(&product)
	if err := h.Products.Create(c.Request.Context(), &product); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Products.Get(c.Request.Context(), id, true)
	if err != nil {
		h.respondError(c, err)
		return
	}
	req.apply(product)
	if err := h.Products.Update(c.Request.Context(), product); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.Products.Get(c.Request.Context(), id, true)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.Products.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	h.removeUpload(product.Image)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// removeUpload deletes an uploaded image referenced as /uploads/<name>.
// Missing files are fine, the product row is already gone.
func (h *Handlers) removeUpload(image *string) {
	if image == nil {
		return
	}
	name := strings.TrimPrefix(*image, "/uploads/")
	if name == "" || name == *image {
		return
	}
	path := filepath.Join(h.Cfg.Uploads.Dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not remove upload", "path", path, "error", err)
	}
}
