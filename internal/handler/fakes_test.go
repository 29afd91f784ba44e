package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/keshetlaw/keshet-cms/internal/config"
	"github.com/keshetlaw/keshet-cms/internal/model"
	"github.com/keshetlaw/keshet-cms/internal/repository"
)

// fakeUserStore backs auth and bootstrap tests without a database.
type fakeUserStore struct {
	byEmail  map[string]model.User
	nextID   uint64
	hasAdmin bool

	bootstrapped   bool
	createErr      error
	bootstrapCalls int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]model.User{}, nextID: 1}
}

func (f *fakeUserStore) add(u model.User) model.User {
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.byEmail[u.Email] = u
	if u.Role == model.RoleAdmin {
		f.hasAdmin = true
	}
	return u
}

func (f *fakeUserStore) Create(_ context.Context, name, email, passwordHash string, role model.Role) (uint64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if _, dup := f.byEmail[email]; dup {
		return 0, repository.ErrEmailExists
	}
	u := f.add(model.User{Name: name, Email: email, PasswordHash: passwordHash, Role: role, Status: model.StatusActive})
	return u.ID, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) HasAdmin(_ context.Context) (bool, error) { return f.hasAdmin, nil }

func (f *fakeUserStore) CreateFirstAdmin(_ context.Context, name, email, passwordHash string) (uint64, error) {
	f.bootstrapCalls++
	if f.bootstrapped {
		return 0, repository.ErrAlreadyBootstrapped
	}
	if _, dup := f.byEmail[email]; dup {
		return 0, repository.ErrEmailExists
	}
	f.bootstrapped = true
	u := f.add(model.User{Name: name, Email: email, PasswordHash: passwordHash, Role: model.RoleAdmin, Status: model.StatusActive})
	return u.ID, nil
}

// fakeSessionStore records session writes keyed by token hash.
type fakeSessionStore struct {
	byHash    map[string]uint64
	createErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byHash: map[string]uint64{}}
}

func (f *fakeSessionStore) Create(_ context.Context, userID uint64, tokenHash string, _ time.Time, _ model.SessionMeta) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byHash[tokenHash] = userID
	return nil
}

func (f *fakeSessionStore) DeleteByHash(_ context.Context, tokenHash string) error {
	delete(f.byHash, tokenHash)
	return nil
}

func (f *fakeSessionStore) DeleteAllForUser(_ context.Context, userID uint64) error {
	for h, uid := range f.byHash {
		if uid == userID {
			delete(f.byHash, h)
		}
	}
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Env:              "test",
		SessionSecret:    "test-session-secret",
		SessionTTLDays:   14,
		CookieName:       "keshet_session",
		BootstrapSecret:  "bootstrap-secret",
		BcryptCost:       4,
		DownloadSecret:   "test-download-secret",
		DownloadTokenTTL: 15,
	}
}
