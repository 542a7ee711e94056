package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/moderation"
)

// HandleModerationQueue lists guest content awaiting review. The kind query
// parameter selects posts or photos; status defaults to pending.
func HandleModerationQueue(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var kind moderation.Kind
		switch r.URL.Query().Get("kind") {
		case "posts", "post":
			kind = moderation.KindPost
		case "photos", "photo":
			kind = moderation.KindPhoto
		default:
			respondError(w, http.StatusBadRequest, "tipo de conteúdo inválido")
			return
		}

		status := database.ModerationStatus(r.URL.Query().Get("status"))
		switch status {
		case "":
			status = database.StatusPending
		case database.StatusPending, database.StatusApproved, database.StatusRejected:
		default:
			respondError(w, http.StatusBadRequest, "status inválido")
			return
		}

		if kind == moderation.KindPost {
			posts, err := s.GetDB().ListGuestPosts(r.Context(), status)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "erro ao listar mensagens")
				return
			}
			respondJSON(w, http.StatusOK, map[string]any{"items": toPostViews(posts)})
			return
		}

		photos, err := s.GetDB().ListGuestPhotos(r.Context(), status)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao listar fotos")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": toPhotoViews(photos)})
	}
}

type moderateRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// HandleModerate applies a single approve or reject transition to the
// content kind the route is mounted for. Items may be re-moderated; the new
// decision simply overwrites the previous one.
func HandleModerate(s AdminServer, kind moderation.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req moderateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}

		email, _ := s.GetCurrentUser(r)
		err := s.GetModeration().Moderate(r.Context(), kind, id,
			moderation.Action(req.Action), req.Reason, email)
		if errors.Is(err, moderation.ErrInvalidAction) {
			respondError(w, http.StatusBadRequest, "ação inválida")
			return
		}
		if errors.Is(err, database.ErrContentNotFound) {
			respondError(w, http.StatusNotFound, "conteúdo não encontrado")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao moderar conteúdo")
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{
			"id":     id,
			"action": req.Action,
		})
	}
}

type moderateBatchRequest struct {
	IDs     []string `json:"ids"`
	PostIDs []string `json:"postIds"`
	Action  string   `json:"action"`
	Reason  string   `json:"reason"`
}

// selected accepts either payload key; the admin dashboard sends postIds.
func (req moderateBatchRequest) selected() []string {
	if len(req.IDs) > 0 {
		return req.IDs
	}
	return req.PostIDs
}

// HandleModerateBatch applies one action to a set of items of the mounted
// kind. Ids are deduplicated but processed in the order given; failures are
// independent per item.
func HandleModerateBatch(s AdminServer, kind moderation.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moderateBatchRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}
		ids := req.selected()
		if len(ids) == 0 {
			respondError(w, http.StatusBadRequest, "nenhum item selecionado")
			return
		}

		selection := moderation.NewSelection(ids...)
		email, _ := s.GetCurrentUser(r)
		result, err := s.GetModeration().ModerateBatch(r.Context(), kind,
			selection.IDs(), moderation.Action(req.Action), req.Reason, email)
		if errors.Is(err, moderation.ErrInvalidAction) {
			respondError(w, http.StatusBadRequest, "ação inválida")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao moderar conteúdo")
			return
		}
		if result.Failed == 0 {
			selection.Clear()
		}

		respondJSON(w, http.StatusOK, result)
	}
}
