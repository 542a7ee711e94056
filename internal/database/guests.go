package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hy25/casamento/internal/invitecode"
)

var ErrGuestNotFound = errors.New("guest not found")

const guestColumns = `id, name, email, phone, invitation_code, guest_type, attending,
	dietary_restrictions, plus_one, plus_one_name, family_group_id,
	invitation_sent_at, reminder_count, reminder_last_sent_at, created_at, updated_at`

// CreateGuest inserts a guest, generating a unique invitation code when the
// guest does not carry one already.
func (db *DB) CreateGuest(ctx context.Context, guest *Guest, codePrefix string) error {
	if guest.ID == "" {
		guest.ID = uuid.New().String()
	}
	if guest.GuestType == "" {
		guest.GuestType = GuestIndividual
	}
	now := time.Now()
	guest.CreatedAt = now
	guest.UpdatedAt = now

	if guest.InvitationCode == "" {
		code, err := db.generateUniqueCode(ctx, codePrefix)
		if err != nil {
			return err
		}
		guest.InvitationCode = code
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO guests (id, name, email, phone, invitation_code, guest_type, attending,
			dietary_restrictions, plus_one, plus_one_name, family_group_id,
			invitation_sent_at, reminder_count, reminder_last_sent_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		guest.ID, guest.Name, guest.Email, guest.Phone, guest.InvitationCode, string(guest.GuestType),
		guest.Attending, guest.DietaryRestrictions, guest.PlusOne, guest.PlusOneName,
		guest.FamilyGroupID, guest.InvitationSentAt, guest.ReminderCount, guest.ReminderLastSentAt,
		guest.CreatedAt, guest.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create guest: %w", err)
	}
	return nil
}

// generateUniqueCode retries code generation until an unused code is found.
func (db *DB) generateUniqueCode(ctx context.Context, prefix string) (string, error) {
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		code, err := invitecode.New(prefix)
		if err != nil {
			return "", err
		}

		var exists bool
		err = db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM guests WHERE invitation_code = $1
				UNION SELECT 1 FROM invitation_codes WHERE code = $1)`, code).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique code after %d retries", maxRetries)
}

func scanGuest(row interface{ Scan(...any) error }) (*Guest, error) {
	g := &Guest{}
	var guestType string
	err := row.Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.InvitationCode, &guestType,
		&g.Attending, &g.DietaryRestrictions, &g.PlusOne, &g.PlusOneName, &g.FamilyGroupID,
		&g.InvitationSentAt, &g.ReminderCount, &g.ReminderLastSentAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.GuestType = GuestType(guestType)
	return g, nil
}

// GetGuestByID retrieves a guest by ID
func (db *DB) GetGuestByID(ctx context.Context, id string) (*Guest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE id = $1`, id)
	guest, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return guest, nil
}

// GetGuestByCode retrieves a guest by invitation code
func (db *DB) GetGuestByCode(ctx context.Context, code string) (*Guest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE invitation_code = $1`, code)
	guest, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return guest, nil
}

// GetAllGuests retrieves all guests, newest first
func (db *DB) GetAllGuests(ctx context.Context) ([]*Guest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM guests ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get guests: %w", err)
	}
	defer rows.Close()

	var guests []*Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, guest)
	}
	return guests, rows.Err()
}

// GetGuestsByIDs retrieves guests preserving the order of the given ids.
// Unknown ids are skipped; callers that care compare lengths.
func (db *DB) GetGuestsByIDs(ctx context.Context, ids []string) ([]*Guest, error) {
	guests := make([]*Guest, 0, len(ids))
	for _, id := range ids {
		guest, err := db.GetGuestByID(ctx, id)
		if errors.Is(err, ErrGuestNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		guests = append(guests, guest)
	}
	return guests, nil
}

// UpdateGuest updates the admin-editable guest fields
func (db *DB) UpdateGuest(ctx context.Context, guest *Guest) error {
	guest.UpdatedAt = time.Now()
	res, err := db.ExecContext(ctx,
		`UPDATE guests SET name = $1, email = $2, phone = $3, guest_type = $4,
			plus_one = $5, plus_one_name = $6, family_group_id = $7, updated_at = $8
		 WHERE id = $9`,
		guest.Name, guest.Email, guest.Phone, string(guest.GuestType),
		guest.PlusOne, guest.PlusOneName, guest.FamilyGroupID, guest.UpdatedAt, guest.ID)
	if err != nil {
		return fmt.Errorf("failed to update guest: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrGuestNotFound
	}
	return nil
}

// DeleteGuest deletes a guest and all dependent records
func (db *DB) DeleteGuest(ctx context.Context, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"rsvps", "guest_posts", "guest_photos", "gift_selections"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE guest_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM guests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MarkInvitationSent records that the invitation email went out
func (db *DB) MarkInvitationSent(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE guests SET invitation_sent_at = $1, updated_at = $1 WHERE id = $2`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark invitation as sent: %w", err)
	}
	return nil
}

// IncrementReminder bumps the reminder counter and stamps the send time
func (db *DB) IncrementReminder(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE guests SET reminder_count = reminder_count + 1,
			reminder_last_sent_at = $1, updated_at = $1 WHERE id = $2`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment reminder count: %w", err)
	}
	return nil
}

// SetFamilyGroup assigns a guest to a family group
func (db *DB) SetFamilyGroup(ctx context.Context, guestID, familyGroupID string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE guests SET family_group_id = $1, updated_at = $2 WHERE id = $3`,
		familyGroupID, time.Now(), guestID)
	if err != nil {
		return fmt.Errorf("failed to set family group: %w", err)
	}
	return nil
}
