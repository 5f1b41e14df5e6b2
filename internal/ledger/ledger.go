package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Qualiasolutions/chainwise-advisor/internal/subscription"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

var (
	// ErrInsufficientCredits is returned when a reservation would take the
	// balance below zero.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrUserNotFound is returned for operations on an unknown user.
	ErrUserNotFound = errors.New("user not found")
	// ErrReservationNotFound is returned when committing or releasing a
	// reservation that does not exist or was already settled.
	ErrReservationNotFound = errors.New("reservation not found or already settled")
)

// Account is a user's credit balance and subscription tier.
type Account struct {
	UserID    string            `json:"user_id"`
	Tier      subscription.Tier `json:"tier"`
	Credits   int               `json:"credits"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Reservation is a pending credit hold. Credits are deducted up front when
// the hold is taken; Commit settles it, Release refunds it.
type Reservation struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// Ledger manages credit balances in Postgres using a reserve/commit/release
// pattern so a failed generation never burns the user's credits.
type Ledger struct {
	db     *sql.DB
	logger logging.Logger
	events *UsageEventPublisher
}

// New creates a credit ledger. events may be nil; usage events are then
// skipped.
func New(db *sql.DB, logger logging.Logger, events *UsageEventPublisher) *Ledger {
	return &Ledger{db: db, logger: logger, events: events}
}

// GetBalance returns the account for a user.
func (l *Ledger) GetBalance(ctx context.Context, userID string) (*Account, error) {
	account := &Account{UserID: userID}
	var tier string
	err := l.db.QueryRowContext(ctx,
		`SELECT tier, credits, updated_at FROM user_credits WHERE user_id = $1`,
		userID).Scan(&tier, &account.Credits, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	account.Tier = subscription.Parse(tier)
	return account, nil
}

// Reserve places a hold of amount credits on the user's balance. The
// deduction happens in a single conditional update so concurrent requests
// can never overdraw the account.
func (l *Ledger) Reserve(ctx context.Context, userID string, amount int, reason string) (*Reservation, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("reservation amount must be positive, got %d", amount)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reservation: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE user_credits SET credits = credits - $2, updated_at = NOW()
		 WHERE user_id = $1 AND credits >= $2`,
		userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to deduct credits: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check deduction: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_credits WHERE user_id = $1)`,
			userID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check account: %w", err)
		}
		if !exists {
			return nil, ErrUserNotFound
		}
		return nil, ErrInsufficientCredits
	}

	res := &Reservation{
		ID:     uuid.New().String(),
		UserID: userID,
		Amount: amount,
		Reason: reason,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO credit_reservations (id, user_id, amount, reason, status, created_at)
		 VALUES ($1, $2, $3, $4, 'reserved', NOW())`,
		res.ID, res.UserID, res.Amount, res.Reason); err != nil {
		return nil, fmt.Errorf("failed to record reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	l.logger.WithFields(logging.Fields{
		"user_id":        userID,
		"reservation_id": res.ID,
		"amount":         amount,
		"reason":         reason,
	}).Debug("Credits reserved")
	return res, nil
}

// Commit settles a reservation: the held credits are consumed for good and
// a usage event is published.
func (l *Ledger) Commit(ctx context.Context, res *Reservation) error {
	result, err := l.db.ExecContext(ctx,
		`UPDATE credit_reservations SET status = 'committed', settled_at = NOW()
		 WHERE id = $1 AND status = 'reserved'`,
		res.ID)
	if err != nil {
		return fmt.Errorf("failed to commit reservation %s: %w", res.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check commit: %w", err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}

	l.events.PublishUsage(ctx, UsageEvent{
		UserID:        res.UserID,
		ReservationID: res.ID,
		Credits:       res.Amount,
		Reason:        res.Reason,
		Timestamp:     time.Now().UTC(),
	})
	return nil
}

// Release cancels a reservation and refunds the held credits. Used when
// generation fails before producing a billable response.
func (l *Ledger) Release(ctx context.Context, res *Reservation) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin release: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE credit_reservations SET status = 'released', settled_at = NOW()
		 WHERE id = $1 AND status = 'reserved'`,
		res.ID)
	if err != nil {
		return fmt.Errorf("failed to release reservation %s: %w", res.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check release: %w", err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_credits SET credits = credits + $2, updated_at = NOW()
		 WHERE user_id = $1`,
		res.UserID, res.Amount); err != nil {
		return fmt.Errorf("failed to refund credits: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit release: %w", err)
	}

	l.logger.WithFields(logging.Fields{
		"user_id":        res.UserID,
		"reservation_id": res.ID,
		"amount":         res.Amount,
	}).Debug("Reservation released")
	return nil
}

// SetTier updates a user's subscription tier and resets their balance to
// the tier's monthly allowance. Creates the account row if missing.
func (l *Ledger) SetTier(ctx context.Context, userID string, tier subscription.Tier) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO user_credits (user_id, tier, credits, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET tier = $2, credits = $3, updated_at = NOW()`,
		userID, tier.String(), tier.MonthlyCredits())
	if err != nil {
		return fmt.Errorf("failed to set tier for %s: %w", userID, err)
	}
	l.logger.WithFields(logging.Fields{
		"user_id": userID,
		"tier":    tier.String(),
		"credits": tier.MonthlyCredits(),
	}).Info("Subscription tier updated")
	return nil
}
