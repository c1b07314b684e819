package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hourmeter-backend/internal/ledger"
)

// createSessionRequest has no hours field: hours worked is always derived.
type createSessionRequest struct {
	ClientID     int64      `json:"client_id"`
	MachineID    int64      `json:"machine_id"`
	Location     string     `json:"location"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	InitialMeter meterValue `json:"initial_meter"`
	FinalMeter   meterValue `json:"final_meter"`
}

// ListSessions handles GET /api/sessions.
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.ledger.ListWorkSessions(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.ledger.RegisterWorkSession(c.Request.Context(), ledger.WorkSessionInput{
		ClientID:     req.ClientID,
		MachineID:    req.MachineID,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		InitialMeter: float64(req.InitialMeter),
		FinalMeter:   float64(req.FinalMeter),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DeleteSession handles DELETE /api/sessions/:id. Rendered reports of the
// session are removed with it.
func (h *Handler) DeleteSession(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteWorkSession(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	if h.renderer != nil {
		if n, err := h.renderer.RemoveArtifacts(id); err != nil {
			log.Printf("Error removing reports of session %d: %v", id, err)
		} else if n > 0 {
			log.Printf("Removed %d report(s) of session %d", n, id)
		}
	}
	c.Status(http.StatusNoContent)
}
