package database

import (
	"database/sql"
	"time"
)

type GuestType string

const (
	GuestIndividual GuestType = "individual"
	GuestFamily     GuestType = "family"
	GuestChild      GuestType = "child"
)

type Guest struct {
	ID                  string
	Name                string
	Email               sql.NullString
	Phone               sql.NullString
	InvitationCode      string
	GuestType           GuestType
	Attending           sql.NullBool
	DietaryRestrictions sql.NullString
	PlusOne             bool
	PlusOneName         sql.NullString
	FamilyGroupID       sql.NullString
	InvitationSentAt    sql.NullTime
	ReminderCount       int
	ReminderLastSentAt  sql.NullTime
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type RSVP struct {
	ID                  string
	GuestID             string
	Attending           bool
	DietaryRestrictions sql.NullString
	PlusOne             bool
	PlusOneName         sql.NullString
	SubmittedAt         time.Time
	IsLatest            bool
}

// ModerationStatus is the review state of guest-submitted content.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

type GuestPost struct {
	ID              string
	GuestID         string
	Message         string
	Status          ModerationStatus
	RejectionReason sql.NullString
	ModeratedBy     sql.NullString
	ModeratedAt     sql.NullTime
	CreatedAt       time.Time
}

type GuestPhoto struct {
	ID              string
	GuestID         string
	URL             string
	Caption         sql.NullString
	Status          ModerationStatus
	RejectionReason sql.NullString
	ModeratedBy     sql.NullString
	ModeratedAt     sql.NullTime
	CreatedAt       time.Time
}

type GiftSelection struct {
	ID               string
	GuestID          string
	GiftName         string
	AmountCents      int64
	PaymentStatus    string
	PaymentReference sql.NullString
	CreatedAt        time.Time
}

type FamilyGroup struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type InvitationCode struct {
	Code      string
	GuestID   sql.NullString
	CreatedAt time.Time
}
