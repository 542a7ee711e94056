// Package moderation manages the review workflow for guest-submitted
// content: pending items are approved or rejected by an admin, singly or in
// batches.
package moderation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hy25/casamento/internal/database"
)

// Kind selects which content table a transition applies to.
type Kind string

const (
	KindPost  Kind = "post"
	KindPhoto Kind = "photo"
)

// Action is an admin moderation decision.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

var ErrInvalidAction = errors.New("invalid moderation action")

// Store is the persistence surface the service needs. *database.DB
// implements it.
type Store interface {
	SetModerationStatus(ctx context.Context, kind, id string, status database.ModerationStatus, reason, moderatedBy sql.NullString, moderatedAt sql.NullTime) error
}

type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "moderation").Logger(),
		now:   time.Now,
	}
}

// Moderate applies a single transition. Approved and rejected items may be
// re-moderated; the new decision overwrites the old one directly. Approving
// always clears any prior rejection reason, and every transition stamps the
// moderator and time.
func (s *Service) Moderate(ctx context.Context, kind Kind, id string, action Action, reason, moderator string) error {
	var status database.ModerationStatus
	var reasonField sql.NullString

	switch action {
	case ActionApprove:
		status = database.StatusApproved
	case ActionReject:
		status = database.StatusRejected
		if reason != "" {
			reasonField = sql.NullString{String: reason, Valid: true}
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	err := s.store.SetModerationStatus(ctx, string(kind), id, status,
		reasonField,
		sql.NullString{String: moderator, Valid: true},
		sql.NullTime{Time: s.now(), Valid: true})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("kind", string(kind)).
		Str("id", id).
		Str("action", string(action)).
		Str("moderator", moderator).
		Msg("content moderated")
	return nil
}

// BatchResult aggregates a batch transition. Failures are independent per
// item; a failed item keeps its previous status while the rest proceed.
type BatchResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// ModerateBatch applies the same action to every id, in order. An invalid
// action fails the whole batch up front; anything else is per-item.
func (s *Service) ModerateBatch(ctx context.Context, kind Kind, ids []string, action Action, reason, moderator string) (BatchResult, error) {
	if action != ActionApprove && action != ActionReject {
		return BatchResult{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	result := BatchResult{}
	for _, id := range ids {
		if err := s.Moderate(ctx, kind, id, action, reason, moderator); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		result.Success++
	}
	return result, nil
}
