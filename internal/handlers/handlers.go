package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Qualiasolutions/chainwise-advisor/internal/advisor"
	"github.com/Qualiasolutions/chainwise-advisor/internal/ledger"
	"github.com/Qualiasolutions/chainwise-advisor/internal/subscription"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/middleware"
)

// AdvisorService is the generation pipeline capability consumed by handlers.
type AdvisorService interface {
	GenerateChatResponse(ctx context.Context, opts advisor.ChatOptions) (*advisor.Result, error)
	GeneratePremiumToolResponse(ctx context.Context, toolID string, userInput map[string]interface{}, userTier subscription.Tier, maxTokens int) (*advisor.Result, error)
}

// CreditStore is the ledger capability consumed by handlers.
type CreditStore interface {
	GetBalance(ctx context.Context, userID string) (*ledger.Account, error)
	Reserve(ctx context.Context, userID string, amount int, reason string) (*ledger.Reservation, error)
	Commit(ctx context.Context, res *ledger.Reservation) error
	Release(ctx context.Context, res *ledger.Reservation) error
}

// Handlers carries the dependencies for the ChainWise API endpoints.
type Handlers struct {
	advisor AdvisorService
	credits CreditStore
	limiter *RateLimiter
	logger  logging.Logger
}

func New(advisorSvc AdvisorService, credits CreditStore, limiter *RateLimiter, logger logging.Logger) *Handlers {
	return &Handlers{
		advisor: advisorSvc,
		credits: credits,
		limiter: limiter,
		logger:  logger,
	}
}

// Register mounts the authenticated API routes on the given group.
func (h *Handlers) Register(api *gin.RouterGroup) {
	api.POST("/chat", h.HandleChat)
	api.POST("/tools/:tool", h.HandleTool)
	api.GET("/credits", h.HandleCredits)
}

// requestUser pulls the authenticated user id set by the JWT middleware.
func requestUser(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return userID, true
}

// settle finalizes a reservation after generation. Live responses are
// committed; fallback responses release the hold so users are never charged
// for mock output. Settlement failures are logged, not surfaced.
func (h *Handlers) settle(c *gin.Context, res *ledger.Reservation, fallback bool) int {
	log := middleware.GetContextLogger(c, h.logger)
	if fallback {
		if err := h.credits.Release(c.Request.Context(), res); err != nil {
			log.WithError(err).WithField("reservation_id", res.ID).Error("Failed to release reservation")
		}
		return 0
	}
	if err := h.credits.Commit(c.Request.Context(), res); err != nil {
		log.WithError(err).WithField("reservation_id", res.ID).Error("Failed to commit reservation")
	}
	return res.Amount
}
