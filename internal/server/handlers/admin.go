package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/utils"
)

// HandleAdminListGuests lists every guest, newest first.
func HandleAdminListGuests(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guests, err := s.GetDB().GetAllGuests(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao listar convidados")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"guests": toGuestViews(guests)})
	}
}

type guestRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	GuestType   string `json:"guest_type"`
	PlusOne     bool   `json:"plus_one"`
	PlusOneName string `json:"plus_one_name"`
}

func (req *guestRequest) validate() (string, bool) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "nome é obrigatório", false
	}
	switch database.GuestType(req.GuestType) {
	case "", database.GuestIndividual, database.GuestFamily, database.GuestChild:
	default:
		return "tipo de convidado inválido", false
	}
	return "", true
}

// HandleAdminCreateGuest creates a guest. The invitation code is generated
// server side and returned in the response.
func HandleAdminCreateGuest(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guestRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}
		if msg, ok := req.validate(); !ok {
			respondError(w, http.StatusBadRequest, msg)
			return
		}

		guest := &database.Guest{
			Name:        req.Name,
			Email:       nullString(strings.TrimSpace(req.Email)),
			GuestType:   database.GuestType(req.GuestType),
			PlusOne:     req.PlusOne,
			PlusOneName: nullString(strings.TrimSpace(req.PlusOneName)),
		}

		if phone := strings.TrimSpace(req.Phone); phone != "" {
			normalized, err := utils.NormalizePhoneNumber(phone)
			if err != nil {
				respondError(w, http.StatusBadRequest, "número de telefone inválido")
				return
			}
			guest.Phone = nullString(normalized)
		}

		if err := s.GetDB().CreateGuest(r.Context(), guest, s.GetConfig().CodePrefix); err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao criar convidado")
			return
		}
		respondJSON(w, http.StatusCreated, toGuestView(guest))
	}
}

// HandleAdminGetGuest returns one guest by id.
func HandleAdminGetGuest(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guest, err := s.GetDB().GetGuestByID(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, database.ErrGuestNotFound) {
			respondError(w, http.StatusNotFound, "convidado não encontrado")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao buscar convidado")
			return
		}
		respondJSON(w, http.StatusOK, toGuestView(guest))
	}
}

// HandleAdminUpdateGuest updates the editable fields of a guest.
func HandleAdminUpdateGuest(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guest, err := s.GetDB().GetGuestByID(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, database.ErrGuestNotFound) {
			respondError(w, http.StatusNotFound, "convidado não encontrado")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao buscar convidado")
			return
		}

		var req guestRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}
		if msg, ok := req.validate(); !ok {
			respondError(w, http.StatusBadRequest, msg)
			return
		}

		guest.Name = req.Name
		guest.Email = nullString(strings.TrimSpace(req.Email))
		guest.PlusOne = req.PlusOne
		guest.PlusOneName = nullString(strings.TrimSpace(req.PlusOneName))
		if req.GuestType != "" {
			guest.GuestType = database.GuestType(req.GuestType)
		}

		guest.Phone = sql.NullString{}
		if phone := strings.TrimSpace(req.Phone); phone != "" {
			normalized, err := utils.NormalizePhoneNumber(phone)
			if err != nil {
				respondError(w, http.StatusBadRequest, "número de telefone inválido")
				return
			}
			guest.Phone = nullString(normalized)
		}

		if err := s.GetDB().UpdateGuest(r.Context(), guest); err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao atualizar convidado")
			return
		}
		respondJSON(w, http.StatusOK, toGuestView(guest))
	}
}

// HandleAdminDeleteGuest removes a guest and all its dependent records.
func HandleAdminDeleteGuest(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.GetDB().DeleteGuest(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao excluir convidado")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleAdminStats returns the dashboard aggregates.
func HandleAdminStats(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.GetDB().GetStats(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao calcular estatísticas")
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}
