package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createClientRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
}

// ListClients handles GET /api/clients.
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.ledger.ListClients(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// CreateClient handles POST /api/clients.
func (h *Handler) CreateClient(c *gin.Context) {
	var req createClientRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.ledger.RegisterClient(c.Request.Context(), req.Name, req.TaxID, req.Address)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DeleteClient handles DELETE /api/clients/:id.
func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteClient(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
