package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/hy25/casamento/internal/bulk"
	"github.com/hy25/casamento/internal/config"
	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/mailer"
	"github.com/hy25/casamento/internal/moderation"
	"github.com/hy25/casamento/internal/rsvp"
	"github.com/hy25/casamento/internal/server/handlers"
)

type Server struct {
	config       *config.Config
	db           *database.DB
	rsvp         *rsvp.Service
	moderation   *moderation.Service
	bulk         *bulk.Operations
	cookies      *rsvp.Codec
	sessionStore *sessions.CookieStore
	log          zerolog.Logger
	router       chi.Router
	httpServer   *http.Server
}

// GetDB implements handlers.Server
func (s *Server) GetDB() *database.DB { return s.db }

// GetConfig implements handlers.Server
func (s *Server) GetConfig() *config.Config { return s.config }

// GetRSVP implements handlers.Server
func (s *Server) GetRSVP() *rsvp.Service { return s.rsvp }

// GetCookieCodec implements handlers.Server
func (s *Server) GetCookieCodec() *rsvp.Codec { return s.cookies }

// GetModeration implements handlers.AdminServer
func (s *Server) GetModeration() *moderation.Service { return s.moderation }

// GetBulk implements handlers.AdminServer
func (s *Server) GetBulk() *bulk.Operations { return s.bulk }

// GetCurrentUser implements handlers.AdminServer
func (s *Server) GetCurrentUser(r *http.Request) (string, string) {
	session, _ := s.sessionStore.Get(r, "auth-session")
	email, _ := session.Values["email"].(string)
	name, _ := session.Values["name"].(string)
	return email, name
}

func New(cfg *config.Config, db *database.DB, log zerolog.Logger) *Server {
	mail := mailer.New(cfg, log)

	s := &Server{
		config:       cfg,
		db:           db,
		rsvp:         rsvp.NewService(db, log),
		moderation:   moderation.NewService(db, log),
		bulk:         bulk.NewOperations(db, mail, cfg, log),
		cookies:      rsvp.NewCodec(cfg.CookieHashKey, cfg.CookieBlockKey, cfg.CookieSecure),
		sessionStore: sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		log:          log.With().Str("component", "server").Logger(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recovery)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Public API
	r.Route("/api", func(r chi.Router) {
		r.Get("/day-number", handlers.HandleDayNumber(s))
		r.Get("/guests/{code}/progress", handlers.HandleGuestProgress(s))
		r.Post("/rsvp", handlers.HandleRSVPSubmit(s))
		r.Get("/rsvp/{code}", handlers.HandleRSVPStatus(s))
		r.Post("/rsvp/{code}/dismiss", handlers.HandleRSVPDismiss(s, true))
		r.Delete("/rsvp/{code}/dismiss", handlers.HandleRSVPDismiss(s, false))
		r.Post("/posts", handlers.HandleCreatePost(s))
		r.Post("/photos", handlers.HandleCreatePhoto(s))
		r.Post("/gifts", handlers.HandleCreateGift(s))
		r.Get("/gifts/{code}", handlers.HandleListGifts(s))
		r.Get("/feed", handlers.HandleFeed(s))
	})

	// Auth
	r.Get("/auth/google", s.handleGoogleLogin)
	r.Get("/auth/google/callback", s.handleGoogleCallback)
	r.Get("/auth/logout", s.handleLogout)

	// Admin API (protected)
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/stats", handlers.HandleAdminStats(s))

		r.Get("/guests", handlers.HandleAdminListGuests(s))
		r.Post("/guests", handlers.HandleAdminCreateGuest(s))
		r.Get("/guests/export.csv", handlers.HandleExportCSV(s))
		r.Post("/guests/import", handlers.HandleImportCSV(s))
		r.Get("/guests/{id}", handlers.HandleAdminGetGuest(s))
		r.Put("/guests/{id}", handlers.HandleAdminUpdateGuest(s))
		r.Delete("/guests/{id}", handlers.HandleAdminDeleteGuest(s))

		r.Get("/moderation", handlers.HandleModerationQueue(s))
		r.Patch("/posts/{id}", handlers.HandleModerate(s, moderation.KindPost))
		r.Patch("/photos/{id}", handlers.HandleModerate(s, moderation.KindPhoto))
		r.Post("/posts/batch", handlers.HandleModerateBatch(s, moderation.KindPost))
		r.Post("/photos/batch", handlers.HandleModerateBatch(s, moderation.KindPhoto))

		r.Patch("/gifts/{id}/payment", handlers.HandleGiftPayment(s))

		r.Post("/bulk", handlers.HandleBulk(s))
	})

	s.router = r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", addr).Msg("http server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("remote_addr", r.RemoteAddr).
				Msg("request completed")
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", chimiddleware.GetReqID(r.Context())).
					Msg("panic recovered")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireAuth gates the admin API behind the Google session.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.sessionStore.Get(r, "auth-session")

		email, ok := session.Values["email"].(string)
		if !ok || email == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !s.isAdminEmail(email) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) isAdminEmail(email string) bool {
	for _, adminEmail := range s.config.AdminEmails {
		if email == adminEmail {
			return true
		}
	}
	return false
}
