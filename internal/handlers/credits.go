package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Qualiasolutions/chainwise-advisor/internal/ledger"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/middleware"
)

type creditsResponse struct {
	Tier           string `json:"tier"`
	Credits        int    `json:"credits"`
	MonthlyCredits int    `json:"monthly_credits"`
}

// HandleCredits returns the caller's balance and plan for the settings UI.
func (h *Handlers) HandleCredits(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}

	account, err := h.credits.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no credit account"})
			return
		}
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Failed to load balance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, creditsResponse{
		Tier:           account.Tier.String(),
		Credits:        account.Credits,
		MonthlyCredits: account.Tier.MonthlyCredits(),
	})
}
