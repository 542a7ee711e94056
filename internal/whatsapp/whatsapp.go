// Package whatsapp builds wa.me invite links and invitation messages.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hy25/casamento/internal/utils"
)

// InviteLink returns a wa.me link that opens a chat with the guest's phone
// pre-filled with message. The phone goes through E.164 normalization first;
// wa.me wants the number without the leading plus.
func InviteLink(phone, message string) (string, error) {
	normalized, err := utils.NormalizePhoneNumber(phone)
	if err != nil {
		return "", fmt.Errorf("invalid phone number: %w", err)
	}
	number := strings.TrimPrefix(normalized, "+")
	// wa.me renders "+" literally inside the prefilled text, so spaces
	// must be percent-encoded.
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, text), nil
}

// InviteMessage renders the invitation text sent to a guest. The RSVP link
// carries the guest's invitation code so the site skips the code prompt.
func InviteMessage(guestName, coupleNames, weddingDate, baseURL, code string) string {
	return fmt.Sprintf(
		"Olá %s! 💌\n\n"+
			"Com muita alegria convidamos você para o casamento de %s, no dia %s.\n\n"+
			"Confirme sua presença aqui:\n%s/rsvp?code=%s\n\n"+
			"Esperamos você! 💕",
		guestName, coupleNames, weddingDate, baseURL, code)
}
