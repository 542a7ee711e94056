package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gorilla/securecookie"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.config.GoogleClientID,
		ClientSecret: s.config.GoogleClientSecret,
		RedirectURL:  s.config.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// handleGoogleLogin starts the OAuth flow. The anti-forgery state token is
// kept in the session so the callback can match it.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(16))

	session, _ := s.sessionStore.Get(r, "auth-session")
	session.Values["oauth-state"] = state
	if err := session.Save(r, w); err != nil {
		http.Error(w, "não foi possível iniciar o login", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, s.oauthConfig().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessionStore.Get(r, "auth-session")
	wantState, _ := session.Values["oauth-state"].(string)
	delete(session.Values, "oauth-state")

	if state := r.URL.Query().Get("state"); wantState == "" || state != wantState {
		http.Error(w, "estado de autenticação inválido", http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "código de autorização ausente", http.StatusBadRequest)
		return
	}

	user, err := s.fetchGoogleUser(r.Context(), code)
	if err != nil {
		s.log.Error().Err(err).Msg("google oauth callback failed")
		http.Error(w, "falha na autenticação com o Google", http.StatusInternalServerError)
		return
	}

	if !s.isAdminEmail(user.Email) {
		s.log.Warn().Str("email", user.Email).Msg("login rejected, email not whitelisted")
		http.Error(w, "este email não tem acesso administrativo", http.StatusUnauthorized)
		return
	}

	session.Values["email"] = user.Email
	session.Values["name"] = user.Name
	if err := session.Save(r, w); err != nil {
		http.Error(w, "não foi possível salvar a sessão", http.StatusInternalServerError)
		return
	}

	s.log.Info().Str("email", user.Email).Msg("admin logged in")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// fetchGoogleUser trades the authorization code for a token and reads the
// userinfo endpoint with it.
func (s *Server) fetchGoogleUser(ctx context.Context, code string) (*googleUser, error) {
	cfg := s.oauthConfig()
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	resp, err := cfg.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessionStore.Get(r, "auth-session")
	session.Values["email"] = ""
	session.Values["name"] = ""
	session.Options.MaxAge = -1
	_ = session.Save(r, w)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
