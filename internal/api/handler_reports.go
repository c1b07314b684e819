package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetReport handles GET /api/sessions/:id/report and returns the assembled
// document as JSON.
func (h *Handler) GetReport(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	doc, err := h.ledger.BuildReport(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetReportPDF handles GET /api/sessions/:id/report.pdf. Every call renders a
// fresh file.
func (h *Handler) GetReportPDF(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if h.renderer == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "report rendering is not configured"})
		return
	}

	doc, err := h.ledger.BuildReport(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	path, err := h.renderer.Render(doc)
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not render report", "kind": "render"})
		return
	}
	c.FileAttachment(path, fmt.Sprintf("report_%d.pdf", id))
}

// DeleteReports handles DELETE /api/sessions/:id/reports and removes the
// rendered files of a session while keeping the session itself.
func (h *Handler) DeleteReports(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if h.renderer == nil {
		c.JSON(http.StatusOK, gin.H{"removed": 0})
		return
	}
	n, err := h.renderer.RemoveArtifacts(id)
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not remove reports", "kind": "render"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}
