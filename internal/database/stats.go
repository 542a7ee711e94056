package database

import (
	"context"
	"fmt"

	"github.com/hy25/casamento/internal/progress"
)

// GuestMilestones sources the four progress flags, each from its own
// subsystem: an RSVP submission, a gift selection, an uploaded photo and a
// posted message. A photo that was rejected in moderation does not count.
func (db *DB) GuestMilestones(ctx context.Context, guestID string) (progress.Flags, error) {
	var flags progress.Flags
	err := db.QueryRowContext(ctx, `SELECT
		EXISTS(SELECT 1 FROM rsvps WHERE guest_id = $1),
		EXISTS(SELECT 1 FROM gift_selections WHERE guest_id = $1),
		EXISTS(SELECT 1 FROM guest_photos WHERE guest_id = $1 AND status != 'rejected'),
		EXISTS(SELECT 1 FROM guest_posts WHERE guest_id = $1)`, guestID).
		Scan(&flags.RSVPCompleted, &flags.GiftSelected, &flags.PhotosUploaded, &flags.MessagesSent)
	if err != nil {
		return progress.Flags{}, fmt.Errorf("failed to load guest milestones: %w", err)
	}
	return flags, nil
}

// Stats holds the admin dashboard aggregates.
type Stats struct {
	TotalGuests    int `json:"total_guests"`
	Confirmed      int `json:"confirmed"`
	Declined       int `json:"declined"`
	NotResponded   int `json:"not_responded"`
	PendingPosts   int `json:"pending_posts"`
	PendingPhotos  int `json:"pending_photos"`
	ApprovedPosts  int `json:"approved_posts"`
	ApprovedPhotos int `json:"approved_photos"`
	FamilyGroups   int `json:"family_groups"`
}

// GetStats computes the dashboard aggregates in one round trip.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM guests),
		(SELECT COUNT(*) FROM guests WHERE attending = TRUE),
		(SELECT COUNT(*) FROM guests WHERE attending = FALSE),
		(SELECT COUNT(*) FROM guests WHERE attending IS NULL),
		(SELECT COUNT(*) FROM guest_posts WHERE status = 'pending'),
		(SELECT COUNT(*) FROM guest_photos WHERE status = 'pending'),
		(SELECT COUNT(*) FROM guest_posts WHERE status = 'approved'),
		(SELECT COUNT(*) FROM guest_photos WHERE status = 'approved'),
		(SELECT COUNT(*) FROM family_groups)`).
		Scan(&stats.TotalGuests, &stats.Confirmed, &stats.Declined, &stats.NotResponded,
			&stats.PendingPosts, &stats.PendingPhotos, &stats.ApprovedPosts, &stats.ApprovedPhotos,
			&stats.FamilyGroups)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}
