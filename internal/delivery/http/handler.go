package http

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/listmatic/backend/internal/domain"
	"github.com/listmatic/backend/internal/infrastructure/catalog"
	"github.com/listmatic/backend/internal/usecase"
)

// RunDefaults are applied when a run request leaves an option out
type RunDefaults struct {
	Divisor      float64
	ProfitMargin float64
	Threshold    int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	session     *usecase.MatcherSession
	corrections domain.CorrectionRepository
	defaults    RunDefaults
}

// NewHandler creates a new HTTP handler. A nil session makes matcher endpoints answer 503.
func NewHandler(session *usecase.MatcherSession, corrections domain.CorrectionRepository, defaults RunDefaults) *Handler {
	return &Handler{
		session:     session,
		corrections: corrections,
		defaults:    defaults,
	}
}

// RunRequest is the body of a matching run
type RunRequest struct {
	Input        string   `json:"input" binding:"required"`
	Divisor      *float64 `json:"divisor,omitempty"`
	ProfitMargin *float64 `json:"profitMargin,omitempty"`
	Threshold    *int     `json:"threshold,omitempty"`
}

// EditRequest is the body of a manual correction
type EditRequest struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "listmatic-matcher",
		"version": "1.0.0",
	})
}

// RunMatcher segments the posted text and matches it against the loaded catalog
func (h *Handler) RunMatcher(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: input is required"})
		return
	}

	opts := usecase.RunOptions{
		Divisor:      h.defaults.Divisor,
		ProfitMargin: h.defaults.ProfitMargin,
		Threshold:    h.defaults.Threshold,
	}
	if req.Divisor != nil {
		opts.Divisor = *req.Divisor
	}
	if req.ProfitMargin != nil {
		opts.ProfitMargin = *req.ProfitMargin
	}
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}

	results, err := h.session.Run(c.Request.Context(), req.Input, opts)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"stats":   domain.NewMatchStats(results),
	})
}

// GetResults returns the last run's results
func (h *Handler) GetResults(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	results := h.session.Results()
	if results == nil {
		results = []domain.MatchResult{}
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"stats":   domain.NewMatchStats(results),
	})
}

// EditResult applies a manual brand/model to one result and stores the correction
func (h *Handler) EditResult(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Result index must be an integer"})
		return
	}

	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.session.EditMatch(c.Request.Context(), idx, req.Brand, req.Model)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportResults downloads every result as quoted CSV
func (h *Handler) ExportResults(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var buf bytes.Buffer
	if err := h.session.ExportCSV(&buf); err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="matched_products.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportPipeline downloads matched results in the image pipeline's input shape
func (h *Handler) ExportPipeline(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var buf bytes.Buffer
	if err := h.session.ExportPipelineCSV(&buf); err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="_temp_matched.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// UploadCatalog replaces the master catalog with the posted CSV body
func (h *Handler) UploadCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read request body"})
		return
	}

	records, err := catalog.Load(bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCatalog) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Master file is empty"})
			return
		}
		h.writeError(c, err)
		return
	}

	h.session.LoadCatalog(records)
	c.JSON(http.StatusOK, gin.H{"records": len(records)})
}

// ListCorrections returns every stored correction keyed by normalized text
func (h *Handler) ListCorrections(c *gin.Context) {
	if h.corrections == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Correction store not configured"})
		return
	}

	all, err := h.corrections.All(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"corrections": all, "count": len(all)})
}

// DeleteCorrection removes one stored correction
func (h *Handler) DeleteCorrection(c *gin.Context) {
	if h.corrections == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Correction store not configured"})
		return
	}

	if err := h.corrections.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ready answers 503 when the handler was built without a session
func (h *Handler) ready(c *gin.Context) bool {
	if h.session == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Matcher service not configured"})
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCatalog):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Load a master catalog before matching"})
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, domain.ErrCorrectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Printf("[HTTP] Correction store error: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Correction store temporarily unavailable"})
	default:
		log.Printf("[HTTP] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
