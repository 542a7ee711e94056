package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hy25/casamento/internal/bulk"
	"github.com/hy25/casamento/internal/config"
	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/moderation"
	"github.com/hy25/casamento/internal/rsvp"
)

var testSchema = []string{
	`CREATE TABLE guests (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		invitation_code TEXT NOT NULL UNIQUE,
		guest_type TEXT NOT NULL DEFAULT 'individual',
		attending BOOLEAN,
		dietary_restrictions TEXT,
		plus_one BOOLEAN NOT NULL DEFAULT FALSE,
		plus_one_name TEXT,
		family_group_id TEXT,
		invitation_sent_at TIMESTAMP,
		reminder_count INTEGER NOT NULL DEFAULT 0,
		reminder_last_sent_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE rsvps (
		id TEXT PRIMARY KEY,
		guest_id TEXT NOT NULL,
		attending BOOLEAN NOT NULL,
		dietary_restrictions TEXT,
		plus_one BOOLEAN NOT NULL DEFAULT FALSE,
		plus_one_name TEXT,
		submitted_at TIMESTAMP NOT NULL,
		is_latest BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE guest_posts (
		id TEXT PRIMARY KEY,
		guest_id TEXT NOT NULL,
		message TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		rejection_reason TEXT,
		moderated_by TEXT,
		moderated_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE guest_photos (
		id TEXT PRIMARY KEY,
		guest_id TEXT NOT NULL,
		url TEXT NOT NULL,
		caption TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		rejection_reason TEXT,
		moderated_by TEXT,
		moderated_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE gift_selections (
		id TEXT PRIMARY KEY,
		guest_id TEXT NOT NULL,
		gift_name TEXT NOT NULL,
		amount_cents INTEGER NOT NULL DEFAULT 0,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		payment_reference TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE invitation_codes (
		code TEXT PRIMARY KEY,
		guest_id TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE family_groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

// testServer implements the Server and AdminServer interfaces over an
// in-memory database.
type testServer struct {
	db         *database.DB
	cfg        *config.Config
	rsvp       *rsvp.Service
	moderation *moderation.Service
	cookies    *rsvp.Codec
}

func (ts *testServer) GetDB() *database.DB                { return ts.db }
func (ts *testServer) GetConfig() *config.Config          { return ts.cfg }
func (ts *testServer) GetRSVP() *rsvp.Service             { return ts.rsvp }
func (ts *testServer) GetCookieCodec() *rsvp.Codec        { return ts.cookies }
func (ts *testServer) GetModeration() *moderation.Service { return ts.moderation }
func (ts *testServer) GetBulk() *bulk.Operations          { return nil }
func (ts *testServer) GetCurrentUser(_ *http.Request) (string, string) {
	return "admin@example.com", "Admin"
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	cfg := &config.Config{
		CodePrefix:        "HY25",
		CookieHashKey:     "test-hash-key-0123456789abcdef00",
		RSVPDeadline:      time.Now().Add(24 * time.Hour),
		RelationshipStart: time.Date(2019, 2, 14, 0, 0, 0, 0, saoPaulo),
		Location:          saoPaulo,
	}

	log := zerolog.Nop()
	return &testServer{
		db:         db,
		cfg:        cfg,
		rsvp:       rsvp.NewService(db, log),
		moderation: moderation.NewService(db, log),
		cookies:    rsvp.NewCodec(cfg.CookieHashKey, "", false),
	}
}

func createGuest(t *testing.T, ts *testServer, guest *database.Guest) *database.Guest {
	t.Helper()
	require.NoError(t, ts.db.CreateGuest(context.Background(), guest, "HY25"))
	return guest
}

func TestHandleRSVPSubmit(t *testing.T) {
	ts := newTestServer(t)
	guest := createGuest(t, ts, &database.Guest{Name: "Ana Souza", InvitationCode: "HY25-AB12"})

	body := `{"code":"HY25-AB12","attending":true,"dietary_restrictions":"vegetarian"}`
	req := httptest.NewRequest(http.MethodPost, "/api/rsvp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleRSVPSubmit(ts)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)

	record, err := ts.db.GetLatestRSVP(context.Background(), guest.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Attending)
	assert.Equal(t, "vegetarian", record.DietaryRestrictions.String)

	// The state cookie mirrors the confirmation.
	res := rec.Result()
	require.NotEmpty(t, res.Cookies())
	readReq := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range res.Cookies() {
		readReq.AddCookie(c)
	}
	state := ts.cookies.Read(readReq)
	require.NotNil(t, state)
	assert.Equal(t, rsvp.StatusConfirmed, state.Status)
}

func TestHandleRSVPSubmitUnknownCode(t *testing.T) {
	ts := newTestServer(t)

	body := `{"code":"HY25-ZZZZ","attending":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/rsvp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleRSVPSubmit(ts)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRSVPSubmitAfterDeadline(t *testing.T) {
	ts := newTestServer(t)
	ts.cfg.RSVPDeadline = time.Now().Add(-time.Hour)
	createGuest(t, ts, &database.Guest{Name: "Ana Souza", InvitationCode: "HY25-AB12"})

	body := `{"code":"HY25-AB12","attending":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/rsvp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleRSVPSubmit(ts)(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	guests, err := ts.db.GetAllGuests(context.Background())
	require.NoError(t, err)
	assert.False(t, guests[0].Attending.Valid, "nothing written after the deadline")
}

func TestHandleRSVPStatusServerWins(t *testing.T) {
	ts := newTestServer(t)
	guest := createGuest(t, ts, &database.Guest{Name: "Ana Souza", InvitationCode: "HY25-AB12"})
	require.NoError(t, ts.db.CreateRSVP(context.Background(),
		&database.RSVP{GuestID: guest.ID, Attending: false}))

	// Cookie claims confirmed; the declined server record must win.
	seed := httptest.NewRecorder()
	require.NoError(t, ts.cookies.Write(seed, rsvp.CookieState{Status: rsvp.StatusConfirmed}))

	router := chi.NewRouter()
	router.Get("/api/rsvp/{code}", HandleRSVPStatus(ts))

	req := httptest.NewRequest(http.MethodGet, "/api/rsvp/HY25-AB12", nil)
	for _, c := range seed.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"declined"`)
}

func TestHandleRSVPDismissAndRestore(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rsvp/HY25-AB12/dismiss", nil)
	rec := httptest.NewRecorder()
	HandleRSVPDismiss(ts, true)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	readReq := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		readReq.AddCookie(c)
	}
	state := ts.cookies.Read(readReq)
	require.NotNil(t, state)
	assert.True(t, state.Dismissed)
	assert.Equal(t, rsvp.StatusNotResponded, state.Status)

	// Dismissal is reversible.
	undo := httptest.NewRequest(http.MethodDelete, "/api/rsvp/HY25-AB12/dismiss", nil)
	for _, c := range rec.Result().Cookies() {
		undo.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	HandleRSVPDismiss(ts, false)(rec, undo)
	require.Equal(t, http.StatusOK, rec.Code)

	readReq = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		readReq.AddCookie(c)
	}
	state = ts.cookies.Read(readReq)
	require.NotNil(t, state)
	assert.False(t, state.Dismissed)
}

func TestHandleDayNumber(t *testing.T) {
	ts := newTestServer(t)
	router := chi.NewRouter()
	router.Get("/api/day-number", HandleDayNumber(ts))

	req := httptest.NewRequest(http.MethodGet, "/api/day-number?date=2019-02-14", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"day_number":1`)
}

func TestHandleDayNumberBadDate(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/day-number?date=14/02/2019", nil)
	rec := httptest.NewRecorder()
	HandleDayNumber(ts)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGuestProgress(t *testing.T) {
	ts := newTestServer(t)
	guest := createGuest(t, ts, &database.Guest{Name: "Ana Souza", InvitationCode: "HY25-AB12"})
	require.NoError(t, ts.db.CreateRSVP(context.Background(),
		&database.RSVP{GuestID: guest.ID, Attending: true}))

	router := chi.NewRouter()
	router.Get("/api/guests/{code}/progress", HandleGuestProgress(ts))

	req := httptest.NewRequest(http.MethodGet, "/api/guests/hy25-ab12/progress", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completion_percentage":25`)
	assert.Contains(t, rec.Body.String(), `"rsvp_completed":true`)
}

func TestHandleCreatePostAndFeed(t *testing.T) {
	ts := newTestServer(t)
	createGuest(t, ts, &database.Guest{Name: "Ana Souza", InvitationCode: "HY25-AB12"})

	body := `{"code":"HY25-AB12","message":"Parabéns aos noivos!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleCreatePost(ts)(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	// A pending post never reaches the public feed.
	feedReq := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	feedRec := httptest.NewRecorder()
	HandleFeed(ts)(feedRec, feedReq)
	require.Equal(t, http.StatusOK, feedRec.Code)
	assert.NotContains(t, feedRec.Body.String(), "Parabéns aos noivos!")
}

func TestHandleModerateBatch(t *testing.T) {
	ts := newTestServer(t)

	var ids []string
	for _, msg := range []string{"um", "dois", "três"} {
		post := &database.GuestPost{GuestID: "g1", Message: msg}
		require.NoError(t, ts.db.CreateGuestPost(context.Background(), post))
		ids = append(ids, post.ID)
	}

	// Duplicate and unknown ids: duplicates collapse, the unknown id fails
	// without blocking the rest.
	body := `{"action":"approve","ids":["` + ids[0] + `","` + ids[0] + `","` +
		ids[1] + `","missing","` + ids[2] + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/admin/api/posts/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleModerateBatch(ts, moderation.KindPost)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":3`)
	assert.Contains(t, rec.Body.String(), `"failed":1`)

	posts, err := ts.db.ListGuestPosts(context.Background(), database.StatusApproved)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestHandleModerateBatchPostIDsKey(t *testing.T) {
	ts := newTestServer(t)

	post := &database.GuestPost{GuestID: "g1", Message: "oi"}
	require.NoError(t, ts.db.CreateGuestPost(context.Background(), post))

	body := `{"action":"approve","postIds":["` + post.ID + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/admin/api/posts/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleModerateBatch(ts, moderation.KindPost)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":1`)

	posts, err := ts.db.ListGuestPosts(context.Background(), database.StatusApproved)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestHandleModerateRejectThenApprove(t *testing.T) {
	ts := newTestServer(t)
	post := &database.GuestPost{GuestID: "g1", Message: "oi"}
	require.NoError(t, ts.db.CreateGuestPost(context.Background(), post))

	router := chi.NewRouter()
	router.Patch("/admin/api/posts/{id}", HandleModerate(ts, moderation.KindPost))

	reject := httptest.NewRequest(http.MethodPatch,
		"/admin/api/posts/"+post.ID,
		strings.NewReader(`{"action":"reject","reason":"conteúdo impróprio"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, reject)
	require.Equal(t, http.StatusOK, rec.Code)

	approve := httptest.NewRequest(http.MethodPatch,
		"/admin/api/posts/"+post.ID,
		strings.NewReader(`{"action":"approve"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, approve)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := ts.db.GetGuestPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, database.StatusApproved, got.Status)
	assert.False(t, got.RejectionReason.Valid, "approval clears the rejection reason")
	assert.Equal(t, "admin@example.com", got.ModeratedBy.String)
}

func TestHandleCreateGiftAndPayment(t *testing.T) {
	ts := newTestServer(t)
	guest := createGuest(t, ts, &database.Guest{Name: "Ana Souza", InvitationCode: "HY25-AB12"})

	body := `{"code":"HY25-AB12","gift_name":"Jogo de panelas","amount_cents":25000}`
	req := httptest.NewRequest(http.MethodPost, "/api/gifts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleCreateGift(ts)(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"payment_status":"pending"`)

	gifts, err := ts.db.ListGiftSelections(context.Background(), guest.ID)
	require.NoError(t, err)
	require.Len(t, gifts, 1)

	router := chi.NewRouter()
	router.Patch("/admin/api/gifts/{id}/payment", HandleGiftPayment(ts))

	pay := httptest.NewRequest(http.MethodPatch,
		"/admin/api/gifts/"+gifts[0].ID+"/payment",
		strings.NewReader(`{"status":"paid","reference":"pix-123"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, pay)
	require.Equal(t, http.StatusOK, rec.Code)

	gifts, err = ts.db.ListGiftSelections(context.Background(), guest.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", gifts[0].PaymentStatus)
	assert.Equal(t, "pix-123", gifts[0].PaymentReference.String)
}

func TestHandleAdminCreateGuestInvalidPhone(t *testing.T) {
	ts := newTestServer(t)

	body := `{"name":"Ana Souza","phone":"123"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/api/guests", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleAdminCreateGuest(ts)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAdminCreateAndGetGuest(t *testing.T) {
	ts := newTestServer(t)

	body := `{"name":"Ana Souza","email":"ana@example.com","phone":"(11) 98765-4321","guest_type":"family"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/api/guests", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleAdminCreateGuest(ts)(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"invitation_code":"HY25-`)
	assert.Contains(t, rec.Body.String(), `"+5511987654321"`)

	guests, err := ts.db.GetAllGuests(context.Background())
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, database.GuestFamily, guests[0].GuestType)
}
