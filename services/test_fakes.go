package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/pkg/crypto"
)

// FakeStorage is a test-only fake implementing core.Storage. It holds
// everything in maps and exposes error fields for behavior injection.
type FakeStorage struct {
	mu       sync.RWMutex
	todos    map[string]*core.Todo
	profiles map[string]*core.Profile

	createErr error
	getErr    error
	updateErr error
	deleteErr error
	listErr   error
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		todos:    make(map[string]*core.Todo),
		profiles: make(map[string]*core.Profile),
	}
}

func (f *FakeStorage) CreateTodo(_ context.Context, t *core.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *t
	f.todos[t.ID] = &cp
	return nil
}

func (f *FakeStorage) GetTodoByID(_ context.Context, id string) (*core.Todo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.todos[id]
	if !ok {
		return nil, core.ErrTodoNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *FakeStorage) ListTodosByUser(_ context.Context, userID string) ([]*core.Todo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*core.Todo
	for _, t := range f.todos {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *FakeStorage) UpdateTodo(_ context.Context, t *core.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.todos[t.ID]; !ok {
		return core.ErrTodoNotFound
	}
	cp := *t
	f.todos[t.ID] = &cp
	return nil
}

func (f *FakeStorage) DeleteTodo(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.todos[id]; !ok {
		return core.ErrTodoNotFound
	}
	delete(f.todos, id)
	return nil
}

func (f *FakeStorage) CreateProfile(_ context.Context, p *core.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[p.ID]; ok {
		return core.ErrProfileExists
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *FakeStorage) GetProfileByID(_ context.Context, id string) (*core.Profile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, core.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *FakeStorage) DeleteProfile(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, id)
	return nil
}

// FakeAuthProvider is a test-only fake implementing core.AuthProvider.
// Sessions are issued in memory; error fields inject provider failures.
type FakeAuthProvider struct {
	mu    sync.Mutex
	users map[string]*fakeUser // by email

	sessions map[string]*core.Session // by access token
	refresh  map[string]string        // refresh token -> email

	signUpErr   error
	signInErr   error
	signOutErr  error
	recoverErr  error
	updateErr   error
	exchangeErr error
	getUserErr  error
	refreshErr  error

	maxAge time.Duration

	signOutCalled bool
	recoverCalls  []string
}

type fakeUser struct {
	id       string
	email    string
	password string
}

func NewFakeAuthProvider() *FakeAuthProvider {
	return &FakeAuthProvider{
		users:    make(map[string]*fakeUser),
		sessions: make(map[string]*core.Session),
		refresh:  make(map[string]string),
		maxAge:   time.Hour,
	}
}

// Seed registers a confirmed user and returns its id.
func (f *FakeAuthProvider) Seed(email, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seedLocked(email, password)
}

func (f *FakeAuthProvider) seedLocked(email, password string) string {
	id := fmt.Sprintf("user-%d", len(f.users)+1)
	f.users[email] = &fakeUser{id: id, email: email, password: password}
	return id
}

func (f *FakeAuthProvider) issueLocked(u *fakeUser) *core.Session {
	pair, _ := crypto.GenerateHashedToken()
	refreshPair, _ := crypto.GenerateHashedToken()

	s := &core.Session{
		AccessToken:  pair.Token,
		RefreshToken: refreshPair.Token,
		UserID:       u.id,
		Email:        u.email,
		ExpiresAt:    time.Now().Add(f.maxAge),
	}
	f.sessions[s.AccessToken] = s
	f.refresh[s.RefreshToken] = u.email
	return s
}

func (f *FakeAuthProvider) SignUp(_ context.Context, creds core.Credentials, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signUpErr != nil {
		return f.signUpErr
	}
	if _, ok := f.users[creds.Email]; ok {
		return core.ErrUserExists
	}
	f.seedLocked(creds.Email, creds.Password)
	return nil
}

func (f *FakeAuthProvider) SignInWithPassword(_ context.Context, creds core.Credentials) (*core.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	u, ok := f.users[creds.Email]
	if !ok || u.password != creds.Password {
		return nil, core.ErrInvalidCredentials
	}
	return f.issueLocked(u), nil
}

func (f *FakeAuthProvider) SignOut(_ context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalled = true
	if f.signOutErr != nil {
		return f.signOutErr
	}
	if s, ok := f.sessions[accessToken]; ok {
		delete(f.refresh, s.RefreshToken)
	}
	delete(f.sessions, accessToken)
	return nil
}

func (f *FakeAuthProvider) ResetPasswordForEmail(_ context.Context, email, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recoverErr != nil {
		return f.recoverErr
	}
	f.recoverCalls = append(f.recoverCalls, email)
	return nil
}

func (f *FakeAuthProvider) UpdatePassword(_ context.Context, accessToken, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	s, ok := f.sessions[accessToken]
	if !ok {
		return core.ErrInvalidToken
	}
	if u, ok := f.users[s.Email]; ok {
		u.password = newPassword
	}
	return nil
}

func (f *FakeAuthProvider) ExchangeCode(_ context.Context, code string) (*core.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	// Codes are modeled as "code:<email>" for test readability.
	const prefix = "code:"
	if len(code) <= len(prefix) || code[:len(prefix)] != prefix {
		return nil, core.ErrInvalidToken
	}
	u, ok := f.users[code[len(prefix):]]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return f.issueLocked(u), nil
}

func (f *FakeAuthProvider) GetUser(_ context.Context, accessToken string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	s, ok := f.sessions[accessToken]
	if !ok {
		return nil, core.ErrInvalidToken
	}
	return &core.User{ID: s.UserID, Email: s.Email, EmailVerified: true}, nil
}

func (f *FakeAuthProvider) RefreshSession(_ context.Context, refreshToken string) (*core.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	email, ok := f.refresh[refreshToken]
	if !ok {
		return nil, core.ErrInvalidToken
	}
	delete(f.refresh, refreshToken)
	return f.issueLocked(f.users[email]), nil
}
