package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateRSVP records a submission and marks previous submissions as not
// latest. The guest row mirrors the latest answer so list views stay cheap.
func (db *DB) CreateRSVP(ctx context.Context, rsvp *RSVP) error {
	if rsvp.ID == "" {
		rsvp.ID = uuid.New().String()
	}
	rsvp.SubmittedAt = time.Now()
	rsvp.IsLatest = true

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE rsvps SET is_latest = FALSE WHERE guest_id = $1`, rsvp.GuestID)
	if err != nil {
		return fmt.Errorf("failed to update previous submissions: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rsvps (id, guest_id, attending, dietary_restrictions, plus_one, plus_one_name, submitted_at, is_latest)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)`,
		rsvp.ID, rsvp.GuestID, rsvp.Attending, rsvp.DietaryRestrictions,
		rsvp.PlusOne, rsvp.PlusOneName, rsvp.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to create rsvp: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE guests SET attending = $1, dietary_restrictions = $2, updated_at = $3 WHERE id = $4`,
		rsvp.Attending, rsvp.DietaryRestrictions, rsvp.SubmittedAt, rsvp.GuestID)
	if err != nil {
		return fmt.Errorf("failed to update guest: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetLatestRSVP returns the latest submission for a guest, or nil when the
// guest has not responded yet.
func (db *DB) GetLatestRSVP(ctx context.Context, guestID string) (*RSVP, error) {
	r := &RSVP{}
	err := db.QueryRowContext(ctx,
		`SELECT id, guest_id, attending, dietary_restrictions, plus_one, plus_one_name, submitted_at, is_latest
		 FROM rsvps WHERE guest_id = $1 AND is_latest = TRUE`, guestID).
		Scan(&r.ID, &r.GuestID, &r.Attending, &r.DietaryRestrictions,
			&r.PlusOne, &r.PlusOneName, &r.SubmittedAt, &r.IsLatest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rsvp: %w", err)
	}
	return r, nil
}
