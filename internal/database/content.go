package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrContentNotFound = errors.New("content not found")

// contentTables maps a content kind to its table. Only values from this map
// are ever interpolated into queries.
var contentTables = map[string]string{
	"post":  "guest_posts",
	"photo": "guest_photos",
}

func contentTable(kind string) (string, error) {
	table, ok := contentTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown content kind %q", kind)
	}
	return table, nil
}

// CreateGuestPost stores a guest message
func (db *DB) CreateGuestPost(ctx context.Context, post *GuestPost) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Status == "" {
		post.Status = StatusPending
	}
	post.CreatedAt = time.Now()

	_, err := db.ExecContext(ctx,
		`INSERT INTO guest_posts (id, guest_id, message, status, rejection_reason, moderated_by, moderated_at, created_at)
		 VALUES ($1, $2, $3, $4, NULL, NULL, NULL, $5)`,
		post.ID, post.GuestID, post.Message, string(post.Status), post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// CreateGuestPhoto stores an uploaded photo record
func (db *DB) CreateGuestPhoto(ctx context.Context, photo *GuestPhoto) error {
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	if photo.Status == "" {
		photo.Status = StatusPending
	}
	photo.CreatedAt = time.Now()

	_, err := db.ExecContext(ctx,
		`INSERT INTO guest_photos (id, guest_id, url, caption, status, rejection_reason, moderated_by, moderated_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULL, NULL, NULL, $6)`,
		photo.ID, photo.GuestID, photo.URL, photo.Caption, string(photo.Status), photo.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

// SetModerationStatus applies a moderation transition to a post or photo.
// Approving clears any prior rejection reason; moving to pending clears the
// moderator fields entirely.
func (db *DB) SetModerationStatus(ctx context.Context, kind, id string, status ModerationStatus, reason, moderatedBy sql.NullString, moderatedAt sql.NullTime) error {
	table, err := contentTable(kind)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE `+table+` SET status = $1, rejection_reason = $2, moderated_by = $3, moderated_at = $4 WHERE id = $5`,
		string(status), reason, moderatedBy, moderatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update %s status: %w", kind, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrContentNotFound
	}
	return nil
}

// GetGuestPost retrieves a post by ID
func (db *DB) GetGuestPost(ctx context.Context, id string) (*GuestPost, error) {
	p := &GuestPost{}
	var status string
	err := db.QueryRowContext(ctx,
		`SELECT id, guest_id, message, status, rejection_reason, moderated_by, moderated_at, created_at
		 FROM guest_posts WHERE id = $1`, id).
		Scan(&p.ID, &p.GuestID, &p.Message, &status, &p.RejectionReason, &p.ModeratedBy, &p.ModeratedAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	p.Status = ModerationStatus(status)
	return p, nil
}

// GetGuestPhoto retrieves a photo by ID
func (db *DB) GetGuestPhoto(ctx context.Context, id string) (*GuestPhoto, error) {
	p := &GuestPhoto{}
	var status string
	err := db.QueryRowContext(ctx,
		`SELECT id, guest_id, url, caption, status, rejection_reason, moderated_by, moderated_at, created_at
		 FROM guest_photos WHERE id = $1`, id).
		Scan(&p.ID, &p.GuestID, &p.URL, &p.Caption, &status, &p.RejectionReason, &p.ModeratedBy, &p.ModeratedAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	p.Status = ModerationStatus(status)
	return p, nil
}

// ListGuestPosts lists posts filtered by status; an empty status lists all.
func (db *DB) ListGuestPosts(ctx context.Context, status ModerationStatus) ([]*GuestPost, error) {
	query := `SELECT id, guest_id, message, status, rejection_reason, moderated_by, moderated_at, created_at
		 FROM guest_posts`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*GuestPost
	for rows.Next() {
		p := &GuestPost{}
		var st string
		if err := rows.Scan(&p.ID, &p.GuestID, &p.Message, &st, &p.RejectionReason, &p.ModeratedBy, &p.ModeratedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.Status = ModerationStatus(st)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListGuestPhotos lists photos filtered by status; an empty status lists all.
func (db *DB) ListGuestPhotos(ctx context.Context, status ModerationStatus) ([]*GuestPhoto, error) {
	query := `SELECT id, guest_id, url, caption, status, rejection_reason, moderated_by, moderated_at, created_at
		 FROM guest_photos`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []*GuestPhoto
	for rows.Next() {
		p := &GuestPhoto{}
		var st string
		if err := rows.Scan(&p.ID, &p.GuestID, &p.URL, &p.Caption, &st, &p.RejectionReason, &p.ModeratedBy, &p.ModeratedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		p.Status = ModerationStatus(st)
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
