package handlers

import (
	"database/sql"
	"time"

	"github.com/hy25/casamento/internal/database"
)

// View structs flatten the sql.Null* fields of the storage models into
// plain JSON. Absent values render as empty strings or null timestamps.

type guestView struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	InvitationCode      string     `json:"invitation_code"`
	GuestType           string     `json:"guest_type"`
	Attending           *bool      `json:"attending"`
	DietaryRestrictions string     `json:"dietary_restrictions,omitempty"`
	PlusOne             bool       `json:"plus_one"`
	PlusOneName         string     `json:"plus_one_name,omitempty"`
	FamilyGroupID       string     `json:"family_group_id,omitempty"`
	InvitationSentAt    *time.Time `json:"invitation_sent_at"`
	ReminderCount       int        `json:"reminder_count"`
	CreatedAt           time.Time  `json:"created_at"`
}

type postView struct {
	ID              string     `json:"id"`
	GuestID         string     `json:"guest_id"`
	Message         string     `json:"message"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ModeratedBy     string     `json:"moderated_by,omitempty"`
	ModeratedAt     *time.Time `json:"moderated_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

type photoView struct {
	ID              string     `json:"id"`
	GuestID         string     `json:"guest_id"`
	URL             string     `json:"url"`
	Caption         string     `json:"caption,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ModeratedBy     string     `json:"moderated_by,omitempty"`
	ModeratedAt     *time.Time `json:"moderated_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toGuestView(g *database.Guest) guestView {
	v := guestView{
		ID:                  g.ID,
		Name:                g.Name,
		Email:               g.Email.String,
		Phone:               g.Phone.String,
		InvitationCode:      g.InvitationCode,
		GuestType:           string(g.GuestType),
		DietaryRestrictions: g.DietaryRestrictions.String,
		PlusOne:             g.PlusOne,
		PlusOneName:         g.PlusOneName.String,
		FamilyGroupID:       g.FamilyGroupID.String,
		ReminderCount:       g.ReminderCount,
		CreatedAt:           g.CreatedAt,
	}
	if g.Attending.Valid {
		attending := g.Attending.Bool
		v.Attending = &attending
	}
	if g.InvitationSentAt.Valid {
		sent := g.InvitationSentAt.Time
		v.InvitationSentAt = &sent
	}
	return v
}

func toGuestViews(guests []*database.Guest) []guestView {
	views := make([]guestView, len(guests))
	for i, g := range guests {
		views[i] = toGuestView(g)
	}
	return views
}

func toPostView(p *database.GuestPost) postView {
	v := postView{
		ID:              p.ID,
		GuestID:         p.GuestID,
		Message:         p.Message,
		Status:          string(p.Status),
		RejectionReason: p.RejectionReason.String,
		ModeratedBy:     p.ModeratedBy.String,
		CreatedAt:       p.CreatedAt,
	}
	if p.ModeratedAt.Valid {
		at := p.ModeratedAt.Time
		v.ModeratedAt = &at
	}
	return v
}

func toPostViews(posts []*database.GuestPost) []postView {
	views := make([]postView, len(posts))
	for i, p := range posts {
		views[i] = toPostView(p)
	}
	return views
}

func toPhotoView(p *database.GuestPhoto) photoView {
	v := photoView{
		ID:              p.ID,
		GuestID:         p.GuestID,
		URL:             p.URL,
		Caption:         p.Caption.String,
		Status:          string(p.Status),
		RejectionReason: p.RejectionReason.String,
		ModeratedBy:     p.ModeratedBy.String,
		CreatedAt:       p.CreatedAt,
	}
	if p.ModeratedAt.Valid {
		at := p.ModeratedAt.Time
		v.ModeratedAt = &at
	}
	return v
}

func toPhotoViews(photos []*database.GuestPhoto) []photoView {
	views := make([]photoView, len(photos))
	for i, p := range photos {
		views[i] = toPhotoView(p)
	}
	return views
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
