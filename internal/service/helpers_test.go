package service

import (
	"context"
	"fmt"
	"storerating/internal/auth"
	"storerating/internal/config"
	"storerating/internal/entity"
	"storerating/internal/model"
	"storerating/internal/model/modeltest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testPassword = "Secret#Pass1"

type sentMail struct {
	to   string
	link string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, link: resetLink})
	return m.err
}

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}

type fixture struct {
	repo   model.Repository
	mail   *recordingMailer
	tokens *auth.Manager
	auth   *AuthService
	admin  *AdminService
	users  *UserService
	owners *StoreOwnerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Config{
		JWTSecret:              "test-secret",
		ResetTokenTTLMinutes:   60,
		FrontendURL:            "http://frontend.test/",
		StoreOwnerTempPassword: "TempPassword123!",
	}
	repo := modeltest.NewRepository(t)
	tokens, err := auth.NewManager(cfg.JWTSecret, "test", time.Hour)
	require.NoError(t, err)
	mail := &recordingMailer{}
	return &fixture{
		repo:   repo,
		mail:   mail,
		tokens: tokens,
		auth:   NewAuthService(repo, tokens, mail, cfg),
		admin:  NewAdminService(repo, cfg),
		users:  NewUserService(repo),
		owners: NewStoreOwnerService(repo),
	}
}

var hashOnce sync.Once
var testPasswordHash string

// addUser inserts a user straight through the repository.
func (f *fixture) addUser(t *testing.T, email string, role entity.Role) *entity.DbUser {
	t.Helper()
	hashOnce.Do(func() {
		var err error
		testPasswordHash, err = auth.HashPassword(testPassword)
		require.NoError(t, err)
	})
	user := &entity.DbUser{
		Name:         "Fixture user " + strings.Repeat("x", 10) + " " + email,
		Email:        email,
		PasswordHash: testPasswordHash,
		Address:      "1 Fixture Road",
		Role:         role,
	}
	require.NoError(t, f.repo.CreateUser(context.Background(), user))
	return user
}

// addStore inserts a store for owner straight through the repository.
func (f *fixture) addStore(t *testing.T, owner *entity.DbUser, name string) *entity.DbStore {
	t.Helper()
	store := &entity.DbStore{
		Name:    name,
		Email:   fmt.Sprintf("shop-%d@example.com", owner.ID),
		Address: "2 Market Street",
		OwnerID: owner.ID,
	}
	require.NoError(t, f.repo.CreateOwnedStore(context.Background(), store))
	return store
}

func (f *fixture) rate(t *testing.T, user *entity.DbUser, store *entity.DbStore, value int) {
	t.Helper()
	_, err := f.repo.UpsertRating(context.Background(), &entity.DbRating{UserID: user.ID, StoreID: store.ID, Rating: value})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	require.Error(t, err)
	svcErr := AsError(err)
	require.Equal(t, kind, svcErr.Kind, "unexpected error: %v", err)
	return svcErr
}
