package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/dealernetworks/opsboard-backend/internal/identity"
	"github.com/dealernetworks/opsboard-backend/internal/repository"
	"github.com/dealernetworks/opsboard-backend/internal/service"
)

// ConfigHandler exposes the operator configuration store. Every successful
// write republishes the whole configuration so the planner picks it up on
// its next pass.
type ConfigHandler struct {
	repo    repository.ConfigRepository
	outlook *service.OutlookService
}

func NewConfigHandler(repo repository.ConfigRepository, outlook *service.OutlookService) *ConfigHandler {
	return &ConfigHandler{repo: repo, outlook: outlook}
}

func (h *ConfigHandler) GetDealers(c *gin.Context) {
	dealers, err := h.repo.GetDealers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch dealers", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dealers": dealers})
}

func (h *ConfigHandler) PutDealer(c *gin.Context) {
	var dealer domain.DealerConfig
	if err := c.ShouldBindJSON(&dealer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dealer payload", "details": err.Error()})
		return
	}
	if dealer.Slug == "" && dealer.Name != "" {
		dealer.Slug = identity.SlugifyDealerName(dealer.Name)
	}
	if dealer.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dealer slug or name is required"})
		return
	}

	if err := h.repo.UpsertDealer(c.Request.Context(), dealer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save dealer", "details": err.Error()})
		return
	}
	h.republish(c)
	c.JSON(http.StatusOK, gin.H{"dealer": dealer})
}

func (h *ConfigHandler) GetTierRules(c *gin.Context) {
	rules, err := h.repo.GetTierRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tier rules", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *ConfigHandler) PutTierRule(c *gin.Context) {
	var rule domain.TierRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tier rule payload", "details": err.Error()})
		return
	}
	tier, ok := domain.ParseTier(rule.Tier)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tier", "tier": rule.Tier})
		return
	}
	rule.Tier = tier

	if err := h.repo.SaveTierRule(c.Request.Context(), rule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save tier rule", "details": err.Error()})
		return
	}
	h.republish(c)
	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

func (h *ConfigHandler) GetModelTiers(c *gin.Context) {
	tiers, err := h.repo.GetModelTiers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch model tiers", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"model_tiers": tiers})
}

func (h *ConfigHandler) PutModelTiers(c *gin.Context) {
	var assignments map[string]string
	if err := c.ShouldBindJSON(&assignments); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model tier payload", "details": err.Error()})
		return
	}

	normalized := make(map[string]string, len(assignments))
	for model, tierLabel := range assignments {
		tier, ok := domain.ParseTier(tierLabel)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tier", "model": model, "tier": tierLabel})
			return
		}
		normalized[strings.ToLower(strings.TrimSpace(model))] = tier
	}

	if err := h.repo.SaveModelTiers(c.Request.Context(), normalized); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save model tiers", "details": err.Error()})
		return
	}
	h.republish(c)
	c.JSON(http.StatusOK, gin.H{"model_tiers": normalized})
}

func (h *ConfigHandler) GetRangeTargets(c *gin.Context) {
	targets, err := h.repo.GetRangeTargets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch range targets", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

func (h *ConfigHandler) PutRangeTargets(c *gin.Context) {
	var targets []domain.RangeTarget
	if err := c.ShouldBindJSON(&targets); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid range target payload", "details": err.Error()})
		return
	}
	for _, t := range targets {
		if t.Range == "" || t.TargetPercent < 0 || t.TargetPercent > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target percent must be between 0 and 100", "range": t.Range})
			return
		}
	}

	if err := h.repo.SaveRangeTargets(c.Request.Context(), targets); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save range targets", "details": err.Error()})
		return
	}
	h.republish(c)
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

func (h *ConfigHandler) republish(c *gin.Context) {
	if err := h.outlook.WarmLoad(c.Request.Context()); err != nil {
		// The write landed; the planner will catch up on the next reload.
		log.Warn().Err(err).Msg("failed to republish configuration")
	}
}
