package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"hourmeter-backend/internal/ledger"
	"hourmeter-backend/internal/report"
	"hourmeter-backend/internal/store"
)

// ReportRenderer renders report documents and can remove what it rendered.
type ReportRenderer interface {
	report.Renderer
	RemoveArtifacts(recordID int64) (int, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	ledger   *ledger.Ledger
	store    store.Store // push subscriptions only; ledger entities go through the ledger
	renderer ReportRenderer
	webpush  *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(l *ledger.Ledger, s store.Store, renderer ReportRenderer, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		ledger:   l,
		store:    s,
		renderer: renderer,
		webpush:  webpushOptions,
	}
}

// errorStatus maps a ledger error kind to an HTTP status.
func errorStatus(kind ledger.Kind) int {
	switch kind {
	case ledger.KindValidation:
		return http.StatusBadRequest
	case ledger.KindReference:
		return http.StatusConflict
	case ledger.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes {"error", "kind"} for err. Store failures never expose
// their cause to the client.
func abortWithError(c *gin.Context, err error) {
	kind := ledger.KindOf(err)
	if kind == "" {
		kind = ledger.KindStore
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(errorStatus(kind), gin.H{"error": ledger.Detail(err), "kind": kind})
}

func abortBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "kind": ledger.KindValidation})
}

// idParam parses the :id segment. Any integer is accepted; ids that were never
// assigned are simply absent (no-op on delete, not found on read).
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortBadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var me *meterError
		if errors.As(err, &me) {
			abortBadRequest(c, me.Error())
			return false
		}
		abortBadRequest(c, "invalid request")
		return false
	}
	return true
}
