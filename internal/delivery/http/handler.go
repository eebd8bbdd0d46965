package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	reportService *usecase.ReportService
}

// NewHandler creates a new HTTP handler
func NewHandler(reportService *usecase.ReportService) *Handler {
	return &Handler{reportService: reportService}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// reportRequestBody is the JSON shape of a price-check trigger.
type reportRequestBody struct {
	ReferenceURL    string  `json:"referenceUrl"`
	Barcode         string  `json:"barcode"`
	ProductName     string  `json:"productName"`
	ReferencePrice  float64 `json:"referencePrice"`
	DisplayCurrency string  `json:"displayCurrency"`
}

// BuildReport handles one price-check run
func (h *Handler) BuildReport(c *gin.Context) {
	if h.reportService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report service not configured"})
		return
	}

	var body reportRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	report, err := h.reportService.BuildReport(c.Request.Context(), &usecase.ReportRequest{
		ReferenceURL:    body.ReferenceURL,
		Barcode:         body.Barcode,
		ProductName:     body.ProductName,
		ReferencePrice:  body.ReferencePrice,
		DisplayCurrency: body.DisplayCurrency,
	})
	if err != nil {
		h.writeReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// writeReportError maps pipeline outcomes to HTTP statuses. "Nothing found"
// is a 404 with a user-facing message, not a 5xx.
func (h *Handler) writeReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoObservations):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no marketplace listings found - try a different product name",
		})
	case errors.Is(err, domain.ErrReferenceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "could not determine a reference price - supply one manually",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
