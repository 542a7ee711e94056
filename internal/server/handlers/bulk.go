package handlers

import (
	"net/http"

	"github.com/hy25/casamento/internal/bulk"
)

type bulkRequest struct {
	Operation string   `json:"operation"`
	GuestIDs  []string `json:"guest_ids"`
	Count     int      `json:"count"`
}

// HandleBulk dispatches a bulk operation over the selected guests. Items
// are processed sequentially with a configured delay between sends, and the
// response reports per-item successes, failures and skips.
func HandleBulk(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}

		ops := s.GetBulk()
		ctx := r.Context()

		var (
			result bulk.Result
			extra  map[string]any
			err    error
		)

		switch req.Operation {
		case "invitations":
			result, err = ops.SendInvitations(ctx, req.GuestIDs)
		case "reminders":
			result, err = ops.SendReminders(ctx, req.GuestIDs)
		case "whatsapp_links":
			var links map[string]string
			links, result, err = ops.WhatsAppLinks(ctx, req.GuestIDs)
			extra = map[string]any{"links": links}
		case "generate_codes":
			var codes []string
			codes, result, err = ops.GenerateCodes(ctx, req.Count)
			extra = map[string]any{"codes": codes}
		case "group_families":
			result, err = ops.GroupFamilies(ctx)
		default:
			respondError(w, http.StatusBadRequest, "operação desconhecida")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "erro ao executar operação")
			return
		}

		resp := map[string]any{
			"success": result.Success,
			"failed":  result.Failed,
			"errors":  result.Errors,
		}
		for k, v := range extra {
			resp[k] = v
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
