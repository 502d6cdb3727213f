package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brainac-app/brainac/internal/credentials"
	"github.com/brainac-app/brainac/internal/pkg/logger"
	"github.com/brainac-app/brainac/pkg/client"
)

type fakeAPI struct {
	mu    sync.Mutex
	token string

	loginFn    func(ctx context.Context, email, password string) (*client.AuthResponse, error)
	registerFn func(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
	profileFn  func(ctx context.Context) (*client.User, error)
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*client.AuthResponse, error) {
	if f.loginFn == nil {
		return nil, errors.New("unexpected Login call")
	}
	return f.loginFn(ctx, email, password)
}

func (f *fakeAPI) Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error) {
	if f.registerFn == nil {
		return nil, errors.New("unexpected Register call")
	}
	return f.registerFn(ctx, req)
}

func (f *fakeAPI) GetProfile(ctx context.Context) (*client.User, error) {
	if f.profileFn == nil {
		return nil, errors.New("unexpected GetProfile call")
	}
	return f.profileFn(ctx)
}

func (f *fakeAPI) SetAuthToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeAPI) RemoveAuthToken() { f.SetAuthToken("") }

func (f *fakeAPI) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func authResponse(token string) *client.AuthResponse {
	return &client.AuthResponse{
		User: client.User{
			UID:                "u1",
			Email:              "student@x.com",
			DisplayName:        "Jane Doe",
			Class:              10,
			SubscriptionStatus: client.SubscriptionTrial,
		},
		IssuedToken: token,
	}
}

func TestManager_RestoreValidPair(t *testing.T) {
	store := credentials.NewMemoryStore()
	record, _ := json.Marshal(Session{UID: "u1", Email: "a@b.com", FirstName: "Alex", Grade: 9, SubscriptionStatus: "active"})
	if err := store.Save(string(record), "tok123"); err != nil {
		t.Fatal(err)
	}

	api := &fakeAPI{}
	m := NewManager(api, store, testLogger())

	if !m.Loading() {
		t.Error("Loading() = false before Restore")
	}
	m.Restore()

	if m.Loading() {
		t.Error("Loading() = true after Restore")
	}
	if !m.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = false after restoring a valid pair")
	}
	if got := m.Current().Email; got != "a@b.com" {
		t.Errorf("Current().Email = %q, want a@b.com", got)
	}
	if api.Token() != "tok123" {
		t.Errorf("token attached to client = %q, want tok123", api.Token())
	}

	// Restoring again yields the same session and leaves storage alone.
	m2 := NewManager(&fakeAPI{}, store, testLogger())
	m2.Restore()
	if !m2.IsAuthenticated() || m2.Current().UID != "u1" {
		t.Error("second restore did not yield the same session")
	}
	userRecord, token, err := store.Load()
	if err != nil {
		t.Fatalf("storage mutated by restore: %v", err)
	}
	if userRecord != string(record) || token != "tok123" {
		t.Error("restore mutated persisted values")
	}
}

func TestManager_RestorePartialPair(t *testing.T) {
	tests := []struct {
		name string
		seed func(*credentials.MemoryStore)
	}{
		{
			name: "token without user record",
			seed: func(s *credentials.MemoryStore) { s.Seed(credentials.KeyAuthToken, "orphan") },
		},
		{
			name: "user record without token",
			seed: func(s *credentials.MemoryStore) { s.Seed(credentials.KeyUserRecord, `{"uid":"u1"}`) },
		},
		{
			name: "malformed user record",
			seed: func(s *credentials.MemoryStore) {
				s.Seed(credentials.KeyUserRecord, "not json")
				s.Seed(credentials.KeyAuthToken, "tok123")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := credentials.NewMemoryStore()
			tt.seed(store)

			m := NewManager(&fakeAPI{}, store, testLogger())
			m.Restore()

			if m.IsAuthenticated() {
				t.Error("IsAuthenticated() = true after invalid restore")
			}
			if m.Loading() {
				t.Error("Loading() = true after Restore")
			}
			if store.Has(credentials.KeyUserRecord) || store.Has(credentials.KeyAuthToken) {
				t.Error("invalid pair not cleared from storage")
			}
		})
	}
}

func TestManager_LoginSuccess(t *testing.T) {
	store := credentials.NewMemoryStore()
	api := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*client.AuthResponse, error) {
			return authResponse("tok123"), nil
		},
	}
	m := NewManager(api, store, testLogger())
	m.Restore()

	if !m.Login(context.Background(), "student@x.com", "secret") {
		t.Fatal("Login() = false, want true")
	}
	if !m.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = false after successful login")
	}

	sess := m.Current()
	if sess.FirstName != "Jane" || sess.LastName != "Doe" {
		t.Errorf("name split = %q %q, want Jane Doe", sess.FirstName, sess.LastName)
	}
	if sess.Grade != 10 || sess.SubscriptionStatus != "trial" {
		t.Errorf("grade/status = %d/%s, want 10/trial", sess.Grade, sess.SubscriptionStatus)
	}

	userRecord, token, err := store.Load()
	if err != nil {
		t.Fatalf("credentials not persisted: %v", err)
	}
	if token != "tok123" {
		t.Errorf("persisted token = %q, want tok123", token)
	}
	var persisted Session
	if err := json.Unmarshal([]byte(userRecord), &persisted); err != nil {
		t.Fatalf("persisted record not valid JSON: %v", err)
	}
	if persisted.Email != "student@x.com" {
		t.Errorf("persisted email = %q, want student@x.com", persisted.Email)
	}
	if api.Token() != "tok123" {
		t.Errorf("client token = %q, want tok123", api.Token())
	}
	if m.State() != StateAuthenticated {
		t.Errorf("State() = %s, want authenticated", m.State())
	}
}

func TestManager_LoginFailure(t *testing.T) {
	tests := []struct {
		name    string
		loginFn func(ctx context.Context, email, password string) (*client.AuthResponse, error)
	}{
		{
			name: "remote rejection",
			loginFn: func(ctx context.Context, email, password string) (*client.AuthResponse, error) {
				return nil, &client.APIError{StatusCode: 401, Message: "invalid credentials"}
			},
		},
		{
			name: "response without issued token",
			loginFn: func(ctx context.Context, email, password string) (*client.AuthResponse, error) {
				return authResponse(""), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := credentials.NewMemoryStore()
			api := &fakeAPI{loginFn: tt.loginFn}
			m := NewManager(api, store, testLogger())
			m.Restore()

			if m.Login(context.Background(), "a@b.com", "pw") {
				t.Fatal("Login() = true, want false")
			}
			if m.IsAuthenticated() {
				t.Error("IsAuthenticated() = true after failed login")
			}
			if store.Has(credentials.KeyUserRecord) || store.Has(credentials.KeyAuthToken) {
				t.Error("failed login wrote persisted state")
			}
			if m.State() != StateAnonymous {
				t.Errorf("State() = %s, want anonymous", m.State())
			}
			if m.Loading() {
				t.Error("Loading() = true after operation settled")
			}
		})
	}
}

func TestManager_LoginEmptyInputs(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*client.AuthResponse, error) {
			t.Error("remote call issued for empty credentials")
			return nil, errors.New("unreachable")
		},
	}
	m := NewManager(api, credentials.NewMemoryStore(), testLogger())
	m.Restore()

	if m.Login(context.Background(), "", "pw") {
		t.Error("Login() with empty email = true")
	}
	if m.Login(context.Background(), "a@b.com", "") {
		t.Error("Login() with empty password = true")
	}
}

func TestManager_Signup(t *testing.T) {
	store := credentials.NewMemoryStore()
	trialEnd := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{
		registerFn: func(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error) {
			if req.Class != 8 {
				t.Errorf("register class = %d, want 8", req.Class)
			}
			return &client.AuthResponse{
				User: client.User{
					UID:                "u2",
					Email:              req.Email,
					DisplayName:        "SERVER ECHO", // must be ignored
					Class:              8,
					SubscriptionStatus: client.SubscriptionTrial,
					TrialEndDate:       &trialEnd,
				},
				IssuedToken: "tok-new",
			}, nil
		},
	}
	m := NewManager(api, store, testLogger())
	m.Restore()

	if !m.Signup(context.Background(), "Ravi", "Patel", "ravi@x.com", "pw", 8) {
		t.Fatal("Signup() = false, want true")
	}

	sess := m.Current()
	if sess.FirstName != "Ravi" || sess.LastName != "Patel" {
		t.Errorf("session names = %q %q, want the supplied names, not the server echo", sess.FirstName, sess.LastName)
	}
	if sess.Grade != 8 || sess.SubscriptionStatus != "trial" {
		t.Errorf("grade/status = %d/%s", sess.Grade, sess.SubscriptionStatus)
	}
	if sess.TrialEndsAt == nil || !sess.TrialEndsAt.Equal(trialEnd) {
		t.Errorf("TrialEndsAt = %v, want %v", sess.TrialEndsAt, trialEnd)
	}
	if _, token, err := store.Load(); err != nil || token != "tok-new" {
		t.Errorf("persisted token = %q (err %v), want tok-new", token, err)
	}
}

func TestManager_SignupInvalidGrade(t *testing.T) {
	api := &fakeAPI{
		registerFn: func(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error) {
			t.Errorf("remote call issued for grade %d", req.Class)
			return nil, errors.New("unreachable")
		},
	}
	m := NewManager(api, credentials.NewMemoryStore(), testLogger())
	m.Restore()

	for _, grade := range []int{0, -1} {
		if m.Signup(context.Background(), "Ravi", "Patel", "ravi@x.com", "pw", grade) {
			t.Errorf("Signup() with grade %d = true, want rejection", grade)
		}
	}
}

func TestManager_Logout(t *testing.T) {
	store := credentials.NewMemoryStore()
	api := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*client.AuthResponse, error) {
			return authResponse("tok123"), nil
		},
	}
	m := NewManager(api, store, testLogger())
	m.Restore()

	if !m.Login(context.Background(), "student@x.com", "secret") {
		t.Fatal("Login() = false")
	}

	m.Logout()

	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	if store.Has(credentials.KeyUserRecord) || store.Has(credentials.KeyAuthToken) {
		t.Error("logout left persisted keys behind")
	}
	if api.Token() != "" {
		t.Errorf("client token = %q after logout, want empty", api.Token())
	}
	if m.State() != StateAnonymous {
		t.Errorf("State() = %s, want anonymous", m.State())
	}

	// Logging out while already anonymous stays quiet.
	m.Logout()
	if m.IsAuthenticated() {
		t.Error("second logout changed authentication state")
	}
}

func TestManager_LogoutClearFailureIsSwallowed(t *testing.T) {
	store := credentials.NewMemoryStore()
	m := NewManager(&fakeAPI{}, store, testLogger())
	m.Restore()

	store.Fail = errors.New("disk on fire")
	m.Logout() // must not panic and must still drop the session

	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout with failing store")
	}
}

func TestManager_RefreshProfile(t *testing.T) {
	store := credentials.NewMemoryStore()
	record, _ := json.Marshal(Session{UID: "u1", Email: "a@b.com", FirstName: "Old", Grade: 9})
	if err := store.Save(string(record), "tok123"); err != nil {
		t.Fatal(err)
	}

	api := &fakeAPI{
		profileFn: func(ctx context.Context) (*client.User, error) {
			return &client.User{
				UID:                "u1",
				Email:              "a@b.com",
				DisplayName:        "Alex Johnson",
				Class:              10,
				SubscriptionStatus: client.SubscriptionActive,
			}, nil
		},
	}
	m := NewManager(api, store, testLogger())
	m.Restore()

	if !m.RefreshProfile(context.Background()) {
		t.Fatal("RefreshProfile() = false, want true")
	}

	sess := m.Current()
	if sess.FirstName != "Alex" || sess.LastName != "Johnson" {
		t.Errorf("refreshed names = %q %q, want Alex Johnson", sess.FirstName, sess.LastName)
	}
	if sess.Grade != 10 || sess.SubscriptionStatus != "active" {
		t.Errorf("refreshed grade/status = %d/%s", sess.Grade, sess.SubscriptionStatus)
	}

	userRecord, token, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok123" {
		t.Errorf("token = %q after refresh, want tok123 untouched", token)
	}
	var persisted Session
	if err := json.Unmarshal([]byte(userRecord), &persisted); err != nil {
		t.Fatal(err)
	}
	if persisted.FirstName != "Alex" {
		t.Errorf("persisted record not overwritten: FirstName = %q", persisted.FirstName)
	}
}

func TestManager_RefreshProfileWithoutToken(t *testing.T) {
	api := &fakeAPI{
		profileFn: func(ctx context.Context) (*client.User, error) {
			t.Error("GetProfile called without a persisted token")
			return nil, errors.New("unreachable")
		},
	}
	m := NewManager(api, credentials.NewMemoryStore(), testLogger())
	m.Restore()

	if m.RefreshProfile(context.Background()) {
		t.Error("RefreshProfile() = true with no persisted token")
	}
}

func TestManager_RefreshProfileFailureKeepsState(t *testing.T) {
	store := credentials.NewMemoryStore()
	record, _ := json.Marshal(Session{UID: "u1", Email: "a@b.com", FirstName: "Old", Grade: 9})
	if err := store.Save(string(record), "tok123"); err != nil {
		t.Fatal(err)
	}

	api := &fakeAPI{
		profileFn: func(ctx context.Context) (*client.User, error) {
			return nil, &client.APIError{StatusCode: 503, Message: "down"}
		},
	}
	m := NewManager(api, store, testLogger())
	m.Restore()

	if m.RefreshProfile(context.Background()) {
		t.Fatal("RefreshProfile() = true, want false")
	}
	if got := m.Current().FirstName; got != "Old" {
		t.Errorf("session changed on failed refresh: FirstName = %q", got)
	}
	if userRecord, _, _ := store.Load(); userRecord != string(record) {
		t.Error("persisted record changed on failed refresh")
	}
}

func TestManager_ReentrantLoginRejected(t *testing.T) {
	store := credentials.NewMemoryStore()
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*client.AuthResponse, error) {
			close(started)
			<-release
			return authResponse("tok123"), nil
		},
	}
	m := NewManager(api, store, testLogger())
	m.Restore()

	done := make(chan bool)
	go func() { done <- m.Login(context.Background(), "a@b.com", "pw") }()
	<-started

	// Second login while the first is in flight must be rejected, not
	// queued behind it.
	if m.Login(context.Background(), "other@b.com", "pw") {
		t.Error("re-entrant Login() = true, want rejection")
	}

	close(release)
	if !<-done {
		t.Error("original Login() = false, want true")
	}
	if got := m.Current().Email; got != "student@x.com" {
		t.Errorf("Current().Email = %q, want the original login's identity", got)
	}
}

func TestManager_LogoutDuringLoginWins(t *testing.T) {
	store := credentials.NewMemoryStore()
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*client.AuthResponse, error) {
			close(started)
			<-release
			return authResponse("tok123"), nil
		},
	}
	m := NewManager(api, store, testLogger())
	m.Restore()

	done := make(chan bool)
	go func() { done <- m.Login(context.Background(), "a@b.com", "pw") }()
	<-started

	m.Logout()
	close(release)

	if <-done {
		t.Error("Login() = true after a logout settled first")
	}
	if m.IsAuthenticated() {
		t.Error("late login result resurrected a session after logout")
	}
	if store.Has(credentials.KeyUserRecord) || store.Has(credentials.KeyAuthToken) {
		t.Error("late login result wrote persisted state after logout")
	}
}

func TestManager_LogoutDuringRefreshClearsClientToken(t *testing.T) {
	store := credentials.NewMemoryStore()
	record, _ := json.Marshal(Session{UID: "u1", Email: "a@b.com", FirstName: "Old"})
	if err := store.Save(string(record), "tok123"); err != nil {
		t.Fatal(err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{
		profileFn: func(ctx context.Context) (*client.User, error) {
			close(started)
			<-release
			return &client.User{UID: "u1", Email: "a@b.com", DisplayName: "Alex Johnson"}, nil
		},
	}
	m := NewManager(api, store, testLogger())
	m.Restore()

	done := make(chan bool)
	go func() { done <- m.RefreshProfile(context.Background()) }()
	<-started

	m.Logout()
	if api.Token() != "" {
		t.Fatalf("client token = %q after logout, want empty", api.Token())
	}
	close(release)

	if <-done {
		t.Error("RefreshProfile() = true after a logout settled first")
	}
	if m.IsAuthenticated() {
		t.Error("late refresh result resurrected a session after logout")
	}
	if api.Token() != "" {
		t.Errorf("late refresh re-attached a token after logout: %q", api.Token())
	}
	if store.Has(credentials.KeyUserRecord) || store.Has(credentials.KeyAuthToken) {
		t.Error("late refresh wrote persisted state after logout")
	}
}

func TestSplitDisplayName(t *testing.T) {
	tests := []struct {
		in        string
		wantFirst string
		wantLast  string
	}{
		{"Alex Johnson", "Alex", "Johnson"},
		{"Cher", "Cher", ""},
		{"Mary Jane Watson", "Mary", "Jane Watson"},
		{"  Jane Doe  ", "Jane", "Doe"},
		{"", "", ""},
	}

	for _, tt := range tests {
		first, last := SplitDisplayName(tt.in)
		if first != tt.wantFirst || last != tt.wantLast {
			t.Errorf("SplitDisplayName(%q) = %q, %q; want %q, %q", tt.in, first, last, tt.wantFirst, tt.wantLast)
		}
	}
}
