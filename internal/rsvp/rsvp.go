// Package rsvp reconciles the server-of-record RSVP state with the guest's
// convenience cookie and handles submissions.
package rsvp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/invitecode"
)

// Status is the guest-visible RSVP state.
type Status string

const (
	StatusNotResponded Status = "not_responded"
	StatusConfirmed    Status = "confirmed"
	StatusDeclined     Status = "declined"
)

var ErrUnknownCode = errors.New("unknown invitation code")

// Merge applies the precedence rule between the two sources of truth: the
// server record always wins when it exists; the cookie is only a fallback
// for guests whose submission has not reached the server yet.
func Merge(record *database.RSVP, cookie *CookieState) Status {
	if record != nil {
		if record.Attending {
			return StatusConfirmed
		}
		return StatusDeclined
	}
	if cookie != nil && cookie.Status != "" {
		return cookie.Status
	}
	return StatusNotResponded
}

// Submission is a guest's RSVP answer.
type Submission struct {
	Code                string
	Attending           bool
	DietaryRestrictions string
	PlusOne             bool
	PlusOneName         string
}

type Service struct {
	db  *database.DB
	log zerolog.Logger
}

func NewService(db *database.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log.With().Str("component", "rsvp").Logger()}
}

// Submit validates the invitation code and persists the answer. Resubmitting
// an already-confirmed RSVP overwrites the previous answer. Nothing is
// written when any step fails.
func (s *Service) Submit(ctx context.Context, sub Submission) (*database.RSVP, error) {
	guest, err := s.db.GetGuestByCode(ctx, invitecode.Normalize(sub.Code))
	if errors.Is(err, database.ErrGuestNotFound) {
		return nil, ErrUnknownCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitation code: %w", err)
	}

	record := &database.RSVP{
		GuestID:   guest.ID,
		Attending: sub.Attending,
		PlusOne:   sub.PlusOne,
	}
	if sub.DietaryRestrictions != "" {
		record.DietaryRestrictions = sql.NullString{String: sub.DietaryRestrictions, Valid: true}
	}
	if sub.PlusOneName != "" {
		record.PlusOneName = sql.NullString{String: sub.PlusOneName, Valid: true}
	}

	if err := s.db.CreateRSVP(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("guest_id", guest.ID).
		Bool("attending", sub.Attending).
		Msg("rsvp recorded")
	return record, nil
}

// Status returns the merged RSVP state for an invitation code.
func (s *Service) Status(ctx context.Context, code string, cookie *CookieState) (Status, *database.RSVP, error) {
	guest, err := s.db.GetGuestByCode(ctx, invitecode.Normalize(code))
	if errors.Is(err, database.ErrGuestNotFound) {
		return "", nil, ErrUnknownCode
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up invitation code: %w", err)
	}

	record, err := s.db.GetLatestRSVP(ctx, guest.ID)
	if err != nil {
		return "", nil, err
	}
	return Merge(record, cookie), record, nil
}

// StatusFor maps a stored submission to its cookie status.
func StatusFor(attending bool) Status {
	if attending {
		return StatusConfirmed
	}
	return StatusDeclined
}
