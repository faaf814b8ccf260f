package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/dealernetworks/opsboard-backend/internal/service"
)

type OutlookHandler struct {
	service *service.OutlookService
}

func NewOutlookHandler(service *service.OutlookService) *OutlookHandler {
	return &OutlookHandler{service: service}
}

func (h *OutlookHandler) GetOutlook(c *gin.Context) {
	filter := domain.OutlookFilter{
		Dealer: strings.TrimSpace(c.Query("dealer")),
		Model:  strings.TrimSpace(c.Query("model")),
	}

	rows, err := h.service.Outlook(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch outlook", "details": err.Error()})
		return
	}

	computedAt, _ := h.service.Status()
	c.JSON(http.StatusOK, gin.H{
		"rows":        rows,
		"total":       len(rows),
		"computed_at": computedAt,
	})
}

func (h *OutlookHandler) GetGaps(c *gin.Context) {
	tier := strings.TrimSpace(c.Query("tier"))
	if tier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tier parameter is required"})
		return
	}
	fallback, _ := strconv.ParseBool(c.DefaultQuery("fallback_all_models", "false"))

	rows, err := h.service.GapsForTier(c.Request.Context(), tier, fallback)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier": tier,
		"rows": rows,
	})
}

func (h *OutlookHandler) GetGapsDebug(c *gin.Context) {
	tier := strings.TrimSpace(c.Query("tier"))
	if tier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tier parameter is required"})
		return
	}
	fallback, _ := strconv.ParseBool(c.DefaultQuery("fallback_all_models", "false"))

	rows, err := h.service.DebugForTier(c.Request.Context(), tier, fallback)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier": tier,
		"rows": rows,
	})
}

func (h *OutlookHandler) GetTargetHighlights(c *gin.Context) {
	focus := splitList(c.QueryArray("ranges")...)
	if len(focus) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ranges parameter is required"})
		return
	}
	mode := strings.TrimSpace(c.Query("mode"))

	rows, err := h.service.TargetHighlights(c.Request.Context(), focus, mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *OutlookHandler) GetInTransit(c *gin.Context) {
	rows := h.service.InTransit(c.Request.Context(), strings.TrimSpace(c.Query("dealer")))
	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"total": len(rows),
	})
}

func (h *OutlookHandler) GetArchivedReports(c *gin.Context) {
	reports, err := h.service.ArchivedReports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   len(reports),
	})
}

func (h *OutlookHandler) GetArchivedReport(c *gin.Context) {
	payload, err := h.service.ArchivedReport(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h *OutlookHandler) GetStatus(c *gin.Context) {
	computedAt, streams := h.service.Status()
	c.JSON(http.StatusOK, gin.H{
		"computed_at": computedAt,
		"streams":     streams,
	})
}

// splitList supports both repeated and comma-separated query values:
//
//	?ranges=A&ranges=B
//	?ranges=A,B
func splitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
