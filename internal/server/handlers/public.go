package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/daynumber"
	"github.com/hy25/casamento/internal/i18n"
	"github.com/hy25/casamento/internal/invitecode"
	"github.com/hy25/casamento/internal/progress"
)

// HandleDayNumber returns the relationship day counter. An optional date
// query parameter (YYYY-MM-DD) overrides "today" so the frontend can render
// other dates, the wedding day included.
func HandleDayNumber(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := s.GetConfig()

		date := time.Now().In(cfg.Location)
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, cfg.Location)
			if err != nil {
				respondError(w, http.StatusBadRequest, "data inválida, use YYYY-MM-DD")
				return
			}
			date = parsed
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"day_number": daynumber.Day(date, cfg.RelationshipStart),
			"date":       date.Format("2006-01-02"),
		})
	}
}

// HandleGuestProgress returns the four milestones and their aggregate for
// the guest behind an invitation code.
func HandleGuestProgress(s Server) http.HandlerFunc {
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

		flags, err := s.GetDB().GuestMilestones(r.Context(), guest.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao calcular progresso")
			return
		}

		summary := progress.Compute(flags)
		lang := i18n.GetLanguageFromRequest(r)
		respondJSON(w, http.StatusOK, map[string]any{
			"milestones": flags,
			"summary":    summary,
			"message":    progress.MessageIn(summary, string(lang)),
		})
	}
}

type createPostRequest struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleCreatePost accepts a guest message for the feed. New posts start
// pending unless auto-approval is enabled.
func HandleCreatePost(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}
		req.Message = strings.TrimSpace(req.Message)
		if req.Message == "" {
			respondError(w, http.StatusBadRequest, "mensagem é obrigatória")
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

		post := &database.GuestPost{GuestID: guest.ID, Message: req.Message}
		if s.GetConfig().AutoApproveGuests {
			post.Status = database.StatusApproved
		}
		if err := s.GetDB().CreateGuestPost(r.Context(), post); err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao salvar mensagem")
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"id":     post.ID,
			"status": post.Status,
		})
	}
}

type createPhotoRequest struct {
	Code    string `json:"code"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// HandleCreatePhoto records an uploaded photo. The file itself lives in
// object storage; only its URL passes through here.
func HandleCreatePhoto(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPhotoRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			respondError(w, http.StatusBadRequest, "url é obrigatória")
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

		photo := &database.GuestPhoto{GuestID: guest.ID, URL: req.URL}
		if req.Caption != "" {
			photo.Caption = nullString(req.Caption)
		}
		if s.GetConfig().AutoApproveGuests {
			photo.Status = database.StatusApproved
		}
		if err := s.GetDB().CreateGuestPhoto(r.Context(), photo); err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao salvar foto")
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"id":     photo.ID,
			"status": photo.Status,
		})
	}
}

// HandleFeed lists approved guest content for the public gallery.
func HandleFeed(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := s.GetDB().ListGuestPosts(r.Context(), database.StatusApproved)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao listar mensagens")
			return
		}
		photos, err := s.GetDB().ListGuestPhotos(r.Context(), database.StatusApproved)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao listar fotos")
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"posts":  toPostViews(posts),
			"photos": toPhotoViews(photos),
		})
	}
}
