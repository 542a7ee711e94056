// Package handlers holds the HTTP handlers, decoupled from the server
// through small interfaces so they can be tested with fakes.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hy25/casamento/internal/bulk"
	"github.com/hy25/casamento/internal/config"
	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/moderation"
	"github.com/hy25/casamento/internal/rsvp"
)

// Server interface defines the methods needed by public handlers
type Server interface {
	GetDB() *database.DB
	GetConfig() *config.Config
	GetRSVP() *rsvp.Service
	GetCookieCodec() *rsvp.Codec
}

// AdminServer extends Server with the authenticated admin context
type AdminServer interface {
	Server
	GetModeration() *moderation.Service
	GetBulk() *bulk.Operations
	GetCurrentUser(r *http.Request) (email, name string)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
