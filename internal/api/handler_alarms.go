package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAlarms handles GET /api/alarms. With brand and model it returns the
// status of that bucket, without both it returns every bucket in use.
func (h *Handler) GetAlarms(c *gin.Context) {
	brand, mdl := c.Query("brand"), c.Query("model")
	if brand == "" && mdl == "" {
		overview, err := h.ledger.AlarmOverview(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, overview)
		return
	}

	status, err := h.ledger.ComputeAlarmStatus(c.Request.Context(), brand, mdl)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetSummary handles GET /api/summary.
func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.ledger.Summary(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
