package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Qualiasolutions/chainwise-advisor/internal/advisor"
	"github.com/Qualiasolutions/chainwise-advisor/internal/ledger"
	"github.com/Qualiasolutions/chainwise-advisor/internal/premiumtools"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/middleware"
)

type toolRequest struct {
	Input     map[string]interface{} `json:"input"`
	MaxTokens int                    `json:"max_tokens"`
}

type toolResponse struct {
	Response         string `json:"response"`
	Tool             string `json:"tool"`
	Model            string `json:"model"`
	Fallback         bool   `json:"fallback"`
	CreditsUsed      int    `json:"credits_used"`
	CreditsRemaining int    `json:"credits_remaining"`
}

// HandleTool runs a premium tool, charging the tool's credit cost on
// success. Tier gating happens before the backend is ever invoked.
func (h *Handlers) HandleTool(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	if !h.enforce(c, userID) {
		return
	}

	toolID := c.Param("tool")
	tool, ok := premiumtools.Get(toolID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown tool %q", toolID)})
		return
	}

	var req toolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, err := h.credits.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "no credit account"})
			return
		}
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Failed to load balance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !account.Tier.Allows(tool.RequiredTier) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": fmt.Sprintf("%s requires the %s plan", tool.DisplayName, tool.RequiredTier),
		})
		return
	}

	reservation, err := h.credits.Reserve(c.Request.Context(), userID, tool.CreditCost, "tool:"+tool.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientCredits) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient credits"})
			return
		}
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Failed to reserve credits")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	result, err := h.advisor.GeneratePremiumToolResponse(c.Request.Context(),
		tool.ID, req.Input, account.Tier, req.MaxTokens)
	if err != nil {
		h.settle(c, reservation, true)
		switch {
		case errors.Is(err, advisor.ErrInsufficientTier):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, advisor.ErrInvalidTool):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			middleware.GetContextLogger(c, h.logger).WithError(err).Error("Tool generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	used := h.settle(c, reservation, result.Fallback)
	c.JSON(http.StatusOK, toolResponse{
		Response:         result.Text,
		Tool:             tool.ID,
		Model:            result.Model,
		Fallback:         result.Fallback,
		CreditsUsed:      used,
		CreditsRemaining: account.Credits - used,
	})
}
