package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/invitecode"
)

type giftView struct {
	ID               string    `json:"id"`
	GuestID          string    `json:"guest_id"`
	GiftName         string    `json:"gift_name"`
	AmountCents      int64     `json:"amount_cents"`
	PaymentStatus    string    `json:"payment_status"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toGiftView(g *database.GiftSelection) giftView {
	return giftView{
		ID:               g.ID,
		GuestID:          g.GuestID,
		GiftName:         g.GiftName,
		AmountCents:      g.AmountCents,
		PaymentStatus:    g.PaymentStatus,
		PaymentReference: g.PaymentReference.String,
		CreatedAt:        g.CreatedAt,
	}
}

type createGiftRequest struct {
	Code        string `json:"code"`
	GiftName    string `json:"gift_name"`
	AmountCents int64  `json:"amount_cents"`
}

// HandleCreateGift records a guest's gift choice. The selection starts with
// payment pending; the gateway webhook reconciles the status later.
func HandleCreateGift(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGiftRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}
		req.GiftName = strings.TrimSpace(req.GiftName)
		if req.GiftName == "" {
			respondError(w, http.StatusBadRequest, "nome do presente é obrigatório")
			return
		}
		if req.AmountCents < 0 {
			respondError(w, http.StatusBadRequest, "valor inválido")
			return
		}

		guest, err := s.GetDB().GetGuestByCode(r.Context(), invitecode.Normalize(req.Code))
		if errors.Is(err, database.ErrGuestNotFound) {
			respondError(w, http.StatusNotFound, "código de convite não encontrado")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao buscar convidado")
			return
		}

		gift := &database.GiftSelection{
			GuestID:     guest.ID,
			GiftName:    req.GiftName,
			AmountCents: req.AmountCents,
		}
		if err := s.GetDB().CreateGiftSelection(r.Context(), gift); err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao salvar presente")
			return
		}
		respondJSON(w, http.StatusCreated, toGiftView(gift))
	}
}

// HandleListGifts lists the gift selections behind an invitation code.
func HandleListGifts(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := invitecode.Normalize(chi.URLParam(r, "code"))

		guest, err := s.GetDB().GetGuestByCode(r.Context(), code)
		if errors.Is(err, database.ErrGuestNotFound) {
			respondError(w, http.StatusNotFound, "código de convite não encontrado")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao buscar convidado")
			return
		}

		gifts, err := s.GetDB().ListGiftSelections(r.Context(), guest.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao listar presentes")
			return
		}

		views := make([]giftView, len(gifts))
		for i, g := range gifts {
			views[i] = toGiftView(g)
		}
		respondJSON(w, http.StatusOK, map[string]any{"gifts": views})
	}
}

type giftPaymentRequest struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

// HandleGiftPayment reconciles a gift selection against the payment state
// the admin confirmed with the gateway.
func HandleGiftPayment(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req giftPaymentRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}
		switch req.Status {
		case "pending", "paid":
		default:
			respondError(w, http.StatusBadRequest, "status de pagamento inválido")
			return
		}

		id := chi.URLParam(r, "id")
		if err := s.GetDB().UpdatePaymentStatus(r.Context(), id, req.Status, req.Reference); err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao atualizar pagamento")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"id":     id,
			"status": req.Status,
		})
	}
}
