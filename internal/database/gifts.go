package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateGiftSelection records a guest's gift choice
func (db *DB) CreateGiftSelection(ctx context.Context, gift *GiftSelection) error {
	if gift.ID == "" {
		gift.ID = uuid.New().String()
	}
	if gift.PaymentStatus == "" {
		gift.PaymentStatus = "pending"
	}
	gift.CreatedAt = time.Now()

	_, err := db.ExecContext(ctx,
		`INSERT INTO gift_selections (id, guest_id, gift_name, amount_cents, payment_status, payment_reference, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		gift.ID, gift.GuestID, gift.GiftName, gift.AmountCents,
		gift.PaymentStatus, gift.PaymentReference, gift.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create gift selection: %w", err)
	}
	return nil
}

// UpdatePaymentStatus reconciles a gift selection against the payment
// gateway's reported state.
func (db *DB) UpdatePaymentStatus(ctx context.Context, giftID, status, reference string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE gift_selections SET payment_status = $1, payment_reference = $2 WHERE id = $3`,
		status, reference, giftID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}

// ListGiftSelections lists all gift selections for a guest
func (db *DB) ListGiftSelections(ctx context.Context, guestID string) ([]*GiftSelection, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, guest_id, gift_name, amount_cents, payment_status, payment_reference, created_at
		 FROM gift_selections WHERE guest_id = $1 ORDER BY created_at DESC`, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gift selections: %w", err)
	}
	defer rows.Close()

	var gifts []*GiftSelection
	for rows.Next() {
		g := &GiftSelection{}
		if err := rows.Scan(&g.ID, &g.GuestID, &g.GiftName, &g.AmountCents, &g.PaymentStatus, &g.PaymentReference, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gift selection: %w", err)
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}
