package billing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/Qualiasolutions/chainwise-advisor/internal/subscription"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

const maxWebhookBody = 64 * 1024

// TierStore applies subscription changes to the credit ledger.
type TierStore interface {
	SetTier(ctx context.Context, userID string, tier subscription.Tier) error
}

// WebhookHandler processes Stripe subscription lifecycle events and keeps
// the credit ledger's tier and monthly allowance in sync.
type WebhookHandler struct {
	secret     string
	store      TierStore
	logger     logging.Logger
	priceTiers map[string]subscription.Tier
}

// NewWebhookHandler creates a Stripe webhook handler. priceTiers maps
// Stripe price IDs to subscription tiers for events that carry no tier
// metadata.
func NewWebhookHandler(secret string, store TierStore, logger logging.Logger, priceTiers map[string]subscription.Tier) *WebhookHandler {
	return &WebhookHandler{
		secret:     secret,
		store:      store,
		logger:     logger,
		priceTiers: priceTiers,
	}
}

// Handle verifies the Stripe signature and dispatches the event. Unhandled
// event types are acknowledged so Stripe does not retry them.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.secret)
	if err != nil {
		h.logger.WithError(err).Warn("Rejected webhook with bad signature")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		err = h.handleCheckoutCompleted(c.Request.Context(), event)
	case "customer.subscription.updated":
		err = h.handleSubscriptionUpdated(c.Request.Context(), event)
	case "customer.subscription.deleted":
		err = h.handleSubscriptionDeleted(c.Request.Context(), event)
	default:
		h.logger.WithField("type", event.Type).Debug("Ignoring webhook event")
	}
	if err != nil {
		h.logger.WithError(err).WithField("type", event.Type).Error("Failed to process webhook event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return err
	}

	userID := session.ClientReferenceID
	if userID == "" {
		userID = session.Metadata["user_id"]
	}
	if userID == "" {
		h.logger.WithField("session", session.ID).Warn("Checkout session carries no user reference")
		return nil
	}

	tier := subscription.Parse(session.Metadata["tier"])
	h.logger.WithFields(logging.Fields{
		"user_id": userID,
		"tier":    tier.String(),
	}).Info("Checkout completed")
	return h.store.SetTier(ctx, userID, tier)
}

func (h *WebhookHandler) handleSubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return err
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		h.logger.WithField("subscription", sub.ID).Warn("Subscription carries no user reference")
		return nil
	}

	tier := h.tierForSubscription(&sub)
	if sub.Status != stripe.SubscriptionStatusActive && sub.Status != stripe.SubscriptionStatusTrialing {
		tier = subscription.TierFree
	}

	h.logger.WithFields(logging.Fields{
		"user_id": userID,
		"tier":    tier.String(),
		"status":  string(sub.Status),
	}).Info("Subscription updated")
	return h.store.SetTier(ctx, userID, tier)
}

func (h *WebhookHandler) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return err
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		return nil
	}

	h.logger.WithField("user_id", userID).Info("Subscription canceled, reverting to free")
	return h.store.SetTier(ctx, userID, subscription.TierFree)
}

// tierForSubscription resolves the tier from metadata first, then from the
// configured price map. Unresolvable subscriptions downgrade to free.
func (h *WebhookHandler) tierForSubscription(sub *stripe.Subscription) subscription.Tier {
	if t := sub.Metadata["tier"]; t != "" {
		return subscription.Parse(t)
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item.Price == nil {
				continue
			}
			if tier, ok := h.priceTiers[item.Price.ID]; ok {
				return tier
			}
		}
	}
	return subscription.TierFree
}
