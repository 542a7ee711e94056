package bulk

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/hy25/casamento/internal/config"
	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/invitecode"
	"github.com/hy25/casamento/internal/mailer"
	"github.com/hy25/casamento/internal/whatsapp"
)

// Operations implements the admin bulk actions. Every operation returns the
// same Result shape so the dashboard renders them uniformly; none are atomic
// across items.
type Operations struct {
	db     *database.DB
	mail   mailer.Sender
	cfg    *config.Config
	runner *Runner
	log    zerolog.Logger
}

func NewOperations(db *database.DB, mail mailer.Sender, cfg *config.Config, log zerolog.Logger) *Operations {
	runner := NewRunner(log)
	runner.Delay = cfg.BulkSendDelay
	return &Operations{
		db:     db,
		mail:   mail,
		cfg:    cfg,
		runner: runner,
		log:    log.With().Str("component", "bulk").Logger(),
	}
}

// SendInvitations emails the invitation to each guest. Guests who already
// received one, or have no email address, are skipped rather than failed.
func (o *Operations) SendInvitations(ctx context.Context, guestIDs []string) (Result, error) {
	guests, err := o.db.GetGuestsByIDs(ctx, guestIDs)
	if err != nil {
		return Result{}, err
	}

	items := make([]Item, 0, len(guests))
	for _, guest := range guests {
		items = append(items, Item{
			Key: guest.Name,
			Do: func(ctx context.Context) error {
				if guest.InvitationSentAt.Valid {
					return Skip("convite já enviado")
				}
				if !guest.Email.Valid {
					return Skip("sem email cadastrado")
				}
				msg := mailer.Message{
					To:      guest.Email.String,
					Subject: fmt.Sprintf("Convite: casamento de %s", o.cfg.CoupleNames),
					Body:    o.invitationBody(guest),
				}
				if err := o.mail.Send(ctx, msg); err != nil {
					// Provider hiccups are worth retrying.
					return retry.RetryableError(err)
				}
				return o.db.MarkInvitationSent(ctx, guest.ID)
			},
		})
	}
	return o.runner.Run(ctx, items), nil
}

// SendReminders emails an RSVP reminder. Guests who already answered, hit
// the reminder cap or lack an email are skipped.
func (o *Operations) SendReminders(ctx context.Context, guestIDs []string) (Result, error) {
	guests, err := o.db.GetGuestsByIDs(ctx, guestIDs)
	if err != nil {
		return Result{}, err
	}

	items := make([]Item, 0, len(guests))
	for _, guest := range guests {
		items = append(items, Item{
			Key: guest.Name,
			Do: func(ctx context.Context) error {
				if guest.Attending.Valid {
					return Skip("já respondeu")
				}
				if guest.ReminderCount >= o.cfg.ReminderCap {
					return Skip("limite de %d lembretes atingido", o.cfg.ReminderCap)
				}
				if !guest.Email.Valid {
					return Skip("sem email cadastrado")
				}
				msg := mailer.Message{
					To:      guest.Email.String,
					Subject: fmt.Sprintf("Lembrete: confirme sua presença — %s", o.cfg.CoupleNames),
					Body:    o.reminderBody(guest),
				}
				if err := o.mail.Send(ctx, msg); err != nil {
					return retry.RetryableError(err)
				}
				return o.db.IncrementReminder(ctx, guest.ID)
			},
		})
	}
	return o.runner.Run(ctx, items), nil
}

// WhatsAppLinks builds a wa.me invite link per guest. Links are returned by
// guest id; guests without a phone are skipped.
func (o *Operations) WhatsAppLinks(ctx context.Context, guestIDs []string) (map[string]string, Result, error) {
	guests, err := o.db.GetGuestsByIDs(ctx, guestIDs)
	if err != nil {
		return nil, Result{}, err
	}

	links := make(map[string]string)
	items := make([]Item, 0, len(guests))
	for _, guest := range guests {
		items = append(items, Item{
			Key: guest.Name,
			Do: func(ctx context.Context) error {
				if !guest.Phone.Valid {
					return Skip("sem telefone cadastrado")
				}
				message := whatsapp.InviteMessage(
					guest.Name, o.cfg.CoupleNames,
					o.cfg.WeddingDate.Format("02/01/2006"),
					o.cfg.BaseURL, guest.InvitationCode)
				link, err := whatsapp.InviteLink(guest.Phone.String, message)
				if err != nil {
					return err
				}
				links[guest.ID] = link
				return nil
			},
		})
	}

	// Link generation is local, no provider to throttle.
	runner := NewRunner(o.log)
	runner.Delay = 0
	return links, runner.Run(ctx, items), nil
}

// GenerateCodes creates count unassigned invitation codes for hand-outs.
func (o *Operations) GenerateCodes(ctx context.Context, count int) ([]string, Result, error) {
	if count <= 0 || count > 500 {
		return nil, Result{}, fmt.Errorf("invalid code count %d", count)
	}

	codes := make([]string, 0, count)
	items := make([]Item, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, Item{
			Key: fmt.Sprintf("código %d", i+1),
			Do: func(ctx context.Context) error {
				code, err := invitecode.New(o.cfg.CodePrefix)
				if err != nil {
					return err
				}
				if err := o.db.CreatePoolCode(ctx, code); err != nil {
					return err
				}
				codes = append(codes, code)
				return nil
			},
		})
	}

	runner := NewRunner(o.log)
	runner.Delay = 0
	return codes, runner.Run(ctx, items), nil
}

// GroupFamilies applies the surname heuristic over guests without a family
// group and creates one group per surname bucket of two or more.
func (o *Operations) GroupFamilies(ctx context.Context) (Result, error) {
	guests, err := o.db.ListUngroupedGuests(ctx)
	if err != nil {
		return Result{}, err
	}

	groups := GroupBySurname(guests)
	items := make([]Item, 0, len(groups))
	for _, group := range groups {
		items = append(items, Item{
			Key: FamilyName(group.Surname),
			Do: func(ctx context.Context) error {
				ids := make([]string, len(group.Guests))
				for i, guest := range group.Guests {
					ids[i] = guest.ID
				}
				_, err := o.db.CreateFamilyGroup(ctx, FamilyName(group.Surname), ids)
				return err
			},
		})
	}

	runner := NewRunner(o.log)
	runner.Delay = 0
	return runner.Run(ctx, items), nil
}

func (o *Operations) invitationBody(guest *database.Guest) string {
	return fmt.Sprintf(
		"Olá %s,\n\n"+
			"Com muita alegria convidamos você para o casamento de %s, no dia %s em %s.\n\n"+
			"Confirme sua presença: %s/rsvp?code=%s\n\n"+
			"Com carinho,\n%s",
		guest.Name, o.cfg.CoupleNames,
		o.cfg.WeddingDate.Format("02/01/2006"), o.cfg.VenueName,
		o.cfg.BaseURL, guest.InvitationCode, o.cfg.CoupleNames)
}

func (o *Operations) reminderBody(guest *database.Guest) string {
	return fmt.Sprintf(
		"Olá %s,\n\n"+
			"Ainda não recebemos sua confirmação para o casamento de %s (%s).\n"+
			"Leva menos de um minuto: %s/rsvp?code=%s\n\n"+
			"Até o prazo de %s!\n",
		guest.Name, o.cfg.CoupleNames,
		o.cfg.WeddingDate.Format("02/01/2006"),
		o.cfg.BaseURL, guest.InvitationCode,
		o.cfg.RSVPDeadline.Format("02/01/2006"))
}
