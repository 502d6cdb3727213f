package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brainac-app/brainac/internal/credentials"
	"github.com/brainac-app/brainac/internal/pkg/logger"
	"github.com/brainac-app/brainac/internal/pkg/validator"
	"github.com/brainac-app/brainac/pkg/client"
)

// API is the slice of the Brainac SDK the manager drives.
type API interface {
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
	GetProfile(ctx context.Context) (*client.User, error)
	SetAuthToken(token string)
	RemoveAuthToken()
}

// State is the manager's position in its auth lifecycle.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateDeauthenticating
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateDeauthenticating:
		return "deauthenticating"
	default:
		return "unknown"
	}
}

// Manager owns the authenticated-session value. Operations serialize
// through the state machine: a login or signup issued while another
// auth operation is in flight is rejected rather than raced. Remote
// call failures are logged and surface only as a false return; callers
// cannot distinguish causes through this interface.
type Manager struct {
	api      API
	store    credentials.Store
	validate *validator.Validator
	log      *logger.Logger

	mu         sync.Mutex
	state      State
	current    *Session
	loading    bool
	generation uint64
}

// NewManager creates a manager in the loading state. Callers must invoke
// Restore exactly once before using the accessors.
func NewManager(api API, store credentials.Store, log *logger.Logger) *Manager {
	return &Manager{
		api:      api,
		store:    store,
		validate: validator.New(),
		log:      log,
		state:    StateAnonymous,
		loading:  true,
	}
}

// Restore rebuilds the session from the persisted credential pair. A
// missing or malformed pair is cleared and treated as "no session";
// no failure escapes this path. Always ends with Loading() false.
func (m *Manager) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	userRecord, token, err := m.store.Load()
	if err != nil {
		m.clearPersisted()
		return
	}

	var sess Session
	if err := json.Unmarshal([]byte(userRecord), &sess); err != nil {
		m.log.WithError(err).Warn("discarding malformed persisted session")
		m.clearPersisted()
		return
	}

	m.warnIfTokenExpired(token)

	m.api.SetAuthToken(token)
	m.current = &sess
	m.state = StateAuthenticated
	m.generation++
	m.log.With("email", sess.Email).Debug("session restored")
}

// Login authenticates with the remote API and persists the resulting
// session. Returns false on any failure; the reason is logged, not
// surfaced, and neither the in-memory session nor the persisted pair
// is touched.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	if errs := m.validate.Validate(client.LoginRequest{Email: email, Password: password}); len(errs) > 0 {
		m.log.Debugf("login rejected: %s", errs[0].Message)
		return false
	}

	prev, gen, ok := m.begin("login")
	if !ok {
		return false
	}

	resp, err := m.api.Login(ctx, email, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	if m.generation != gen {
		// A logout (or competing identity change) settled first; the
		// late result must not resurrect a session.
		m.log.Warn("discarding login result after concurrent identity change")
		return false
	}

	if err != nil {
		m.log.WithError(err).Error("login failed")
		m.state = prev
		return false
	}
	if resp.IssuedToken == "" {
		m.log.Error("login response carried no issued token")
		m.state = prev
		return false
	}

	return m.establish(FromUser(&resp.User), resp.IssuedToken, prev)
}

// Signup registers a new account. The session is built from the names
// the caller supplied, not the server echo; grade, subscription status
// and dates come from the response.
func (m *Manager) Signup(ctx context.Context, firstName, lastName, email, password string, grade int) bool {
	req := client.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Class:     grade,
	}
	if errs := m.validate.Validate(req); len(errs) > 0 {
		m.log.Debugf("signup rejected: %s", errs[0].Message)
		return false
	}

	prev, gen, ok := m.begin("signup")
	if !ok {
		return false
	}

	resp, err := m.api.Register(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	if m.generation != gen {
		m.log.Warn("discarding signup result after concurrent identity change")
		return false
	}

	if err != nil {
		m.log.WithError(err).Error("signup failed")
		m.state = prev
		return false
	}
	if resp.IssuedToken == "" {
		m.log.Error("signup response carried no issued token")
		m.state = prev
		return false
	}

	sess := Session{
		UID:                resp.UID,
		Email:              email,
		FirstName:          firstName,
		LastName:           lastName,
		Grade:              resp.Class,
		SubscriptionStatus: resp.SubscriptionStatus,
		TrialEndsAt:        resp.TrialEndDate,
		SubscriptionEndsAt: resp.SubscriptionEndDate,
		CreatedAt:          resp.CreatedAt,
		UpdatedAt:          resp.UpdatedAt,
	}
	return m.establish(sess, resp.IssuedToken, prev)
}

// Logout clears the persisted pair, the client token and the in-memory
// session. It never fails from the caller's perspective; clearing
// errors are logged only.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateDeauthenticating
	m.clearPersisted()
	m.api.RemoveAuthToken()
	m.current = nil
	m.state = StateAnonymous
	m.generation++
	m.log.Debug("session cleared")
}

// RefreshProfile re-fetches the profile and replaces the session and
// the persisted user record wholesale. The stored token is re-attached
// but never rewritten. A missing persisted token makes this a no-op.
func (m *Manager) RefreshProfile(ctx context.Context) bool {
	m.mu.Lock()
	if m.state == StateAuthenticating || m.state == StateDeauthenticating {
		m.log.Warnf("refresh rejected while %s", m.state)
		m.mu.Unlock()
		return false
	}
	_, token, err := m.store.Load()
	if err != nil {
		m.log.Debug("refresh skipped: no persisted token")
		m.mu.Unlock()
		return false
	}
	gen := m.generation
	m.loading = true
	// Attach while still holding the lock: a logout that settles after
	// this point removes the token after us, never the other way round.
	m.api.SetAuthToken(token)
	m.mu.Unlock()

	user, err := m.api.GetProfile(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	if m.generation != gen {
		m.log.Warn("discarding profile refresh after concurrent identity change")
		return false
	}
	if err != nil {
		m.log.WithError(err).Error("profile refresh failed")
		return false
	}

	sess := FromUser(user)
	record, err := json.Marshal(sess)
	if err != nil {
		m.log.WithError(err).Error("failed to serialize refreshed session")
		return false
	}
	if err := m.store.SaveUser(string(record)); err != nil {
		m.log.WithError(err).Error("failed to persist refreshed session")
		return false
	}

	m.current = &sess
	if m.state != StateAuthenticated {
		m.state = StateAuthenticated
		m.generation++
	}
	return true
}

// Current returns a copy of the session, or nil when anonymous.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	sess := *m.current
	return &sess
}

// IsAuthenticated reports whether a session exists. Purely derived,
// never stored.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Loading reports whether initial restoration or an operation is in
// flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// State returns the manager's current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Generation increments on every identity change (restore, login,
// signup, logout). The subscription gate uses it to notice identity
// churn between checks.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// begin moves the machine into StateAuthenticating, rejecting re-entrant
// auth operations instead of letting the last writer win.
func (m *Manager) begin(op string) (prev State, gen uint64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAuthenticating || m.state == StateDeauthenticating {
		m.log.Warnf("%s rejected while %s", op, m.state)
		return 0, 0, false
	}
	prev = m.state
	m.state = StateAuthenticating
	m.loading = true
	return prev, m.generation, true
}

// establish persists and installs a fresh session. Called with m.mu held.
func (m *Manager) establish(sess Session, token string, prev State) bool {
	record, err := json.Marshal(sess)
	if err != nil {
		m.log.WithError(err).Error("failed to serialize session")
		m.state = prev
		return false
	}
	if err := m.store.Save(string(record), token); err != nil {
		m.log.WithError(err).Error("failed to persist session")
		m.state = prev
		return false
	}

	m.api.SetAuthToken(token)
	m.current = &sess
	m.state = StateAuthenticated
	m.generation++
	m.log.With("email", sess.Email).Debug("session established")
	return true
}

// clearPersisted drops both halves of the credential pair. Called with
// m.mu held.
func (m *Manager) clearPersisted() {
	if err := m.store.Clear(); err != nil {
		m.log.WithError(err).Error("failed to clear persisted credentials")
	}
}

// warnIfTokenExpired peeks at the stored bearer token's exp claim
// without verifying the signature. The server stays authoritative; an
// expired token only earns a log line so a failing restore is easier
// to diagnose.
func (m *Manager) warnIfTokenExpired(token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return // opaque token, nothing to inspect
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		m.log.Warnf("persisted token expired at %s; API calls will require a fresh login", exp.Format(time.RFC3339))
	}
}
