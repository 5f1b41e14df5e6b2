package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Qualiasolutions/chainwise-advisor/internal/advisor"
	"github.com/Qualiasolutions/chainwise-advisor/internal/ledger"
	"github.com/Qualiasolutions/chainwise-advisor/internal/personas"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/llm"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/middleware"
)

type chatRequest struct {
	Persona     string        `json:"persona" binding:"required"`
	Message     string        `json:"message" binding:"required"`
	History     []chatMessage `json:"history"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Response         string `json:"response"`
	Persona          string `json:"persona"`
	Model            string `json:"model"`
	Fallback         bool   `json:"fallback"`
	CreditsUsed      int    `json:"credits_used"`
	CreditsRemaining int    `json:"credits_remaining"`
}

// HandleChat generates a persona-voiced chat reply, charging the persona's
// credit cost on success.
func (h *Handlers) HandleChat(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	if !h.enforce(c, userID) {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "persona and message are required"})
		return
	}

	persona, ok := personas.Get(req.Persona)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown persona %q", req.Persona)})
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
	if !account.Tier.Allows(persona.RequiredTier) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": fmt.Sprintf("persona %s requires the %s plan", persona.ID, persona.RequiredTier),
		})
		return
	}

	reservation, err := h.credits.Reserve(c.Request.Context(), userID, persona.CreditCost, "chat:"+persona.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientCredits) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient credits"})
			return
		}
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Failed to reserve credits")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	history := make([]llm.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}

	result, err := h.advisor.GenerateChatResponse(c.Request.Context(), advisor.ChatOptions{
		Persona:     persona.ID,
		Message:     req.Message,
		History:     history,
		UserTier:    account.Tier,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		h.settle(c, reservation, true)
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Chat generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	used := h.settle(c, reservation, result.Fallback)
	c.JSON(http.StatusOK, chatResponse{
		Response:         result.Text,
		Persona:          persona.ID,
		Model:            result.Model,
		Fallback:         result.Fallback,
		CreditsUsed:      used,
		CreditsRemaining: account.Credits - used,
	})
}
