package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

const contextKey = "portal.session"

// Options configure the session cookie
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager binds sessions to requests and to the API client
type Manager struct {
	store   Store
	client  *apiclient.Client
	opts    Options
	logger  zerolog.Logger
	onClear []func(id string)
}

// NewManager creates a Manager
func NewManager(store Store, client *apiclient.Client, opts Options, lgr zerolog.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "portal_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &Manager{
		store:  store,
		client: client,
		opts:   opts,
		logger: lgr.With().Str("component", "session").Logger(),
	}
}

// OnClear registers a hook run with the session id whenever a session
// loses its credentials (logout or failed refresh).
func (m *Manager) OnClear(fn func(id string)) {
	m.onClear = append(m.onClear, fn)
}

// Middleware loads the session named by the cookie, or starts a fresh one.
// A fresh session is not stored until something is written to it.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *Session
		if id, err := c.Cookie(m.opts.CookieName); err == nil && id != "" {
			loaded, err := m.store.Load(c.Request.Context(), id)
			switch {
			case err == nil:
				sess = loaded
			case !errors.Is(err, apperrors.ErrSessionNotFound):
				m.logger.Error().Err(err).Msg("Failed to load session")
			}
		}
		if sess == nil {
			sess = New(uuid.NewString())
			m.setCookie(c, sess.ID, int(m.opts.TTL.Seconds()))
		}
		c.Set(contextKey, sess)
		c.Next()
	}
}

// Current returns the request's session. Outside Middleware it returns an
// empty unauthenticated session.
func Current(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return New("")
}

// API returns the API client bound to the request's session
func (m *Manager) API(c *gin.Context) *apiclient.API {
	sess := Current(c)
	if !sess.IsAuthenticated() {
		return m.client.For(nil)
	}
	return m.client.For(&credentials{manager: m, session: sess})
}

// Save persists the request's session
func (m *Manager) Save(c *gin.Context) error {
	return m.save(c.Request.Context(), Current(c))
}

func (m *Manager) save(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		return nil
	}
	return m.store.Save(ctx, sess, m.opts.TTL)
}

// Flash queues a toast for the next page and persists it
func (m *Manager) Flash(c *gin.Context, kind, message string) {
	sess := Current(c)
	sess.AddFlash(kind, message)
	if err := m.Save(c); err != nil {
		m.logger.Error().Err(err).Msg("Failed to save flash")
	}
}

// TakeFlash pops the queued toasts, persisting the now empty queue
func (m *Manager) TakeFlash(c *gin.Context) []Toast {
	sess := Current(c)
	toasts := sess.TakeFlash()
	if len(toasts) > 0 {
		if err := m.Save(c); err != nil {
			m.logger.Error().Err(err).Msg("Failed to save session after reading flash")
		}
	}
	return toasts
}

// Login authenticates against the backend and stores the token pair and
// profile in a new session id.
func (m *Manager) Login(c *gin.Context, email, password string) (*models.User, error) {
	ctx := c.Request.Context()
	res, err := m.client.For(nil).Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	old := Current(c)
	if old.ID != "" {
		if err := m.store.Delete(ctx, old.ID); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to drop pre-login session")
		}
	}

	sess := New(uuid.NewString())
	sess.SetTokens(res.Tokens)
	if len(res.User.Roles) == 0 {
		res.User.Roles = RolesFromToken(res.Tokens.AccessToken)
	}
	sess.SetUser(res.User)
	for _, t := range old.TakeFlash() {
		sess.AddFlash(t.Kind, t.Message)
	}

	if err := m.save(ctx, sess); err != nil {
		return nil, err
	}
	m.setCookie(c, sess.ID, int(m.opts.TTL.Seconds()))
	c.Set(contextKey, sess)

	m.logger.Info().Str("user", string(res.User.ID)).Interface("roles", res.User.Roles).Msg("User logged in")
	return sess.CurrentUser(), nil
}

// Logout drops the session and its cached data
func (m *Manager) Logout(c *gin.Context) {
	sess := Current(c)
	if sess.ID != "" {
		if err := m.store.Delete(c.Request.Context(), sess.ID); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to delete session")
		}
		m.cleared(sess.ID)
	}

	fresh := New(uuid.NewString())
	m.setCookie(c, fresh.ID, int(m.opts.TTL.Seconds()))
	c.Set(contextKey, fresh)
}

func (m *Manager) cleared(id string) {
	for _, fn := range m.onClear {
		fn(id)
	}
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, value, maxAge, "/", "", m.opts.Secure, true)
}

// credentials adapts a session to apiclient.Credentials
type credentials struct {
	manager *Manager
	session *Session
}

func (cr *credentials) Key() string          { return cr.session.ID }
func (cr *credentials) AccessToken() string  { return cr.session.Tokens().AccessToken }
func (cr *credentials) RefreshToken() string { return cr.session.Tokens().RefreshToken }

func (cr *credentials) SetTokens(ctx context.Context, pair models.TokenPair) error {
	cr.session.SetTokens(pair)
	return cr.manager.save(ctx, cr.session)
}

func (cr *credentials) Clear(ctx context.Context) error {
	cr.session.ClearAuth()
	cr.manager.cleared(cr.session.ID)
	return cr.manager.save(ctx, cr.session)
}

// Reload picks up tokens another request stored since this one started
func (cr *credentials) Reload(ctx context.Context) error {
	stored, err := cr.manager.store.Load(ctx, cr.session.ID)
	if err != nil {
		return err
	}
	if pair := stored.Tokens(); pair.AccessToken != "" {
		cr.session.SetTokens(pair)
	}
	return nil
}
