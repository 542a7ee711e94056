package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hy25/casamento/internal/rsvp"
)

type rsvpSubmitRequest struct {
	Code                string `json:"code"`
	Attending           bool   `json:"attending"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	PlusOne             bool   `json:"plus_one"`
	PlusOneName         string `json:"plus_one_name"`
}

// HandleRSVPSubmit records an RSVP answer. Resubmissions overwrite the
// previous answer. The response also refreshes the state cookie so the
// frontend banner stays consistent without another round trip.
func HandleRSVPSubmit(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if time.Now().After(s.GetConfig().RSVPDeadline) {
			respondError(w, http.StatusForbidden, "o prazo para confirmação já passou")
			return
		}

		var req rsvpSubmitRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}
		if strings.TrimSpace(req.Code) == "" {
			respondError(w, http.StatusBadRequest, "código de convite é obrigatório")
			return
		}

		record, err := s.GetRSVP().Submit(r.Context(), rsvp.Submission{
			Code:                req.Code,
			Attending:           req.Attending,
			DietaryRestrictions: strings.TrimSpace(req.DietaryRestrictions),
			PlusOne:             req.PlusOne,
			PlusOneName:         strings.TrimSpace(req.PlusOneName),
		})
		if errors.Is(err, rsvp.ErrUnknownCode) {
			respondError(w, http.StatusNotFound, "código de convite não encontrado")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao salvar confirmação")
			return
		}

		status := rsvp.StatusFor(record.Attending)
		if err := s.GetCookieCodec().Write(w, rsvp.CookieState{Status: status}); err != nil {
			// The server record is saved; a cookie failure is not fatal.
			respondJSON(w, http.StatusOK, map[string]any{"status": status})
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"status":       status,
			"attending":    record.Attending,
			"submitted_at": record.SubmittedAt,
		})
	}
}

// HandleRSVPStatus returns the merged RSVP state for an invitation code.
// The server record wins over whatever the cookie claims.
func HandleRSVPStatus(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if code == "" {
			respondError(w, http.StatusBadRequest, "código de convite é obrigatório")
			return
		}

		cookie := s.GetCookieCodec().Read(r)
		status, record, err := s.GetRSVP().Status(r.Context(), code, cookie)
		if errors.Is(err, rsvp.ErrUnknownCode) {
			respondError(w, http.StatusNotFound, "código de convite não encontrado")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao consultar confirmação")
			return
		}

		// A stale cookie is rewritten with the authoritative state.
		if cookie == nil || cookie.Status != status {
			dismissed := cookie != nil && cookie.Dismissed
			_ = s.GetCookieCodec().Write(w, rsvp.CookieState{Status: status, Dismissed: dismissed})
		}

		resp := map[string]any{
			"status":    status,
			"dismissed": cookie != nil && cookie.Dismissed,
		}
		if record != nil {
			resp["attending"] = record.Attending
			resp["submitted_at"] = record.SubmittedAt
			if record.DietaryRestrictions.Valid {
				resp["dietary_restrictions"] = record.DietaryRestrictions.String
			}
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleRSVPDismiss sets or clears the dismissed flag in the state cookie.
// POST dismisses the RSVP prompt, DELETE brings it back; neither touches
// the server record.
func HandleRSVPDismiss(s Server, dismissed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := rsvp.CookieState{Status: rsvp.StatusNotResponded}
		if cookie := s.GetCookieCodec().Read(r); cookie != nil {
			state = *cookie
		}
		state.Dismissed = dismissed

		if err := s.GetCookieCodec().Write(w, state); err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao salvar preferência")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"status":    state.Status,
			"dismissed": state.Dismissed,
		})
	}
}
