package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/query"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.CatalogService
	orders   *service.OrderService
	payments *service.PaymentService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *service.CatalogService, orders *service.OrderService, payments *service.PaymentService) *Handler {
	return &Handler{
		catalog:  catalog,
		orders:   orders,
		payments: payments,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/featured", h.featuredProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/related", h.relatedProducts)
		v1.GET("/categories", h.listCategories)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.GET("/orders/:id/tracking", h.getOrderTracking)
		v1.PATCH("/orders/:id/status", h.updateOrderStatus)

		v1.POST("/payments", h.processPayment)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts handles catalog listing with filters
func (h *Handler) listProducts(c *gin.Context) {
	f := query.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
		Sizes:    splitParam(c.Query("sizes")),
		Colors:   splitParam(c.Query("colors")),
		MinPrice: floatParam(c.Query("minPrice")),
		MaxPrice: floatParam(c.Query("maxPrice")),
	}

	result := h.catalog.GetAll(c.Request.Context(), f)
	if !result.Success {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	result := h.catalog.GetByID(c.Request.Context(), id)
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// featuredProducts handles the featured product listing
func (h *Handler) featuredProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetFeatured(c.Request.Context()))
}

// relatedProducts handles related products for one product
func (h *Handler) relatedProducts(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	result := h.catalog.GetRelated(c.Request.Context(), id, limit)
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// listCategories handles the category listing
func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetCategories(c.Request.Context()))
}

// createOrder handles order creation
func (h *Handler) createOrder(c *gin.Context) {
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result := h.orders.Create(c.Request.Context(), input)
	if !result.Success {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// listOrders handles the order listing with optional status and search
func (h *Handler) listOrders(c *gin.Context) {
	f := query.OrderFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	c.JSON(http.StatusOK, h.orders.List(c.Request.Context(), f))
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	result := h.orders.GetByID(c.Request.Context(), id)
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// getOrderTracking handles the tracking sub-resource
func (h *Handler) getOrderTracking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	result := h.orders.GetTracking(c.Request.Context(), id)
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// updateOrderStatus handles the status transition
func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result := h.orders.UpdateStatus(c.Request.Context(), id, body.Status)
	if !result.Success {
		status := http.StatusBadGateway
		if result.Error == "Order not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// processPayment handles the simulated payment flow
func (h *Handler) processPayment(c *gin.Context) {
	var input service.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result := h.payments.Process(c.Request.Context(), input)
	if !result.Success {
		c.JSON(http.StatusPaymentRequired, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func floatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
