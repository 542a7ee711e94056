package rsvp

import (
	"net/http"

	"github.com/gorilla/securecookie"
)

const cookieName = "rsvp_state"

// CookieState is the client-side cache of the guest's RSVP interaction. It
// may be stale; Merge decides precedence against the server record.
type CookieState struct {
	Status    Status `json:"status"`
	Dismissed bool   `json:"dismissed"`
}

// Codec signs (and optionally encrypts) the RSVP state cookie.
type Codec struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// NewCodec builds a cookie codec. blockKey may be empty, in which case the
// cookie is signed but not encrypted.
func NewCodec(hashKey, blockKey string, secure bool) *Codec {
	var block []byte
	if blockKey != "" {
		block = []byte(blockKey)
	}
	sc := securecookie.New([]byte(hashKey), block)
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Codec{sc: sc, secure: secure}
}

// Read decodes the state cookie from a request. A missing or tampered cookie
// yields nil, never an error: the cookie is a convenience cache.
func (c *Codec) Read(r *http.Request) *CookieState {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	state := &CookieState{}
	if err := c.sc.Decode(cookieName, cookie.Value, state); err != nil {
		return nil
	}
	return state
}

// Write encodes and sets the state cookie.
func (c *Codec) Write(w http.ResponseWriter, state CookieState) error {
	encoded, err := c.sc.Encode(cookieName, state)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 365,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
