package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateFamilyGroup creates a family group and assigns the given guests to it
// in one transaction.
func (db *DB) CreateFamilyGroup(ctx context.Context, name string, guestIDs []string) (*FamilyGroup, error) {
	group := &FamilyGroup{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO family_groups (id, name, created_at) VALUES ($1, $2, $3)`,
		group.ID, group.Name, group.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create family group: %w", err)
	}

	for _, guestID := range guestIDs {
		_, err = tx.ExecContext(ctx,
			`UPDATE guests SET family_group_id = $1, updated_at = $2 WHERE id = $3`,
			group.ID, group.CreatedAt, guestID)
		if err != nil {
			return nil, fmt.Errorf("failed to assign guest %s: %w", guestID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return group, nil
}

// GetFamilyGroupNames returns every family group name keyed by id.
func (db *DB) GetFamilyGroupNames(ctx context.Context) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM family_groups`)
	if err != nil {
		return nil, fmt.Errorf("failed to list family groups: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan family group: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// ListUngroupedGuests returns guests not yet assigned to a family group
func (db *DB) ListUngroupedGuests(ctx context.Context) ([]*Guest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE family_group_id IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ungrouped guests: %w", err)
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

// CreatePoolCode stores an unassigned invitation code for hand-out
func (db *DB) CreatePoolCode(ctx context.Context, code string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO invitation_codes (code, guest_id, created_at) VALUES ($1, NULL, $2)`,
		code, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store invitation code: %w", err)
	}
	return nil
}

// ListUnassignedCodes lists pool codes not yet tied to a guest
func (db *DB) ListUnassignedCodes(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT code FROM invitation_codes WHERE guest_id IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitation codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
