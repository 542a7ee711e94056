package whatsapp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteLink(t *testing.T) {
	link, err := InviteLink("(11) 91234-5678", "Olá João! Venha ao casamento")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511912345678?text="), link)
	assert.NotContains(t, link, "+", "no plus in the number, spaces percent-encoded")
	assert.Contains(t, link, "Ol%C3%A1%20Jo%C3%A3o")
}

func TestInviteLinkInvalidPhone(t *testing.T) {
	_, err := InviteLink("123", "mensagem")
	assert.Error(t, err)
}

func TestInviteMessage(t *testing.T) {
	msg := InviteMessage("João Silva", "Helena & Yuri", "22 de Novembro de 2025", "https://example.com", "HY25-AB12")

	assert.Contains(t, msg, "João Silva")
	assert.Contains(t, msg, "Helena & Yuri")
	assert.Contains(t, msg, "https://example.com/rsvp?code=HY25-AB12")
}
