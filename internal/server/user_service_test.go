package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jmendez/crmboard/internal/config"
	"github.com/jmendez/crmboard/internal/db"
	"github.com/jmendez/crmboard/internal/types"
)

// fakeUserStore is an in-memory UserStore for service and handler tests.
type fakeUserStore struct {
	users   map[uuid.UUID]*db.User
	byEmail map[string]uuid.UUID
	failAll bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:   make(map[uuid.UUID]*db.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, avatarURL string) (uuid.UUID, error) {
	if f.failAll {
		return uuid.Nil, errors.New("store down")
	}
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.User{
		ID:        id,
		Name:      name,
		Email:     email,
		AvatarURL: avatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.byEmail[email] = id
	return id, nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	id, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	return f.GetUser(context.Background(), id)
}

func (f *fakeUserStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	if f.failAll {
		return false, errors.New("store down")
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	if f.failAll {
		return errors.New("store down")
	}
	u, ok := f.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

// Low bcrypt cost keeps the hashing in tests fast.
func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: 4}
}

func newTestUserService() (*UserService, *fakeUserStore) {
	store := newFakeUserStore()
	return NewUserService(store, testPasswordConfig()), store
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name:     "Maria Santos",
		Email:    "maria@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "maria@example.com" {
		t.Errorf("Expected email maria@example.com, got %s", user.Email)
	}
	if !user.PasswordSet {
		t.Error("Expected PasswordSet to be true after registration")
	}

	logged, err := svc.Login(ctx, &types.LoginRequest{
		Email:    "maria@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("Login returned wrong user: %s != %s", logged.ID, user.ID)
	}
}

func TestUserService_RegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	req := &types.CreateUserRequest{Name: "A", Email: "dup@example.com", Password: "password123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("First register failed: %v", err)
	}

	_, err := svc.Register(ctx, req)
	var dupErr *ErrEmailAlreadyExists
	if !errors.As(err, &dupErr) {
		t.Fatalf("Expected ErrEmailAlreadyExists, got %v", err)
	}
	if HTTPStatus(err) != 409 {
		t.Errorf("Expected status 409, got %d", HTTPStatus(err))
	}
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "B", Email: "b@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "b@example.com", Password: "wrong"})
	var credErr *ErrInvalidCredentials
	if !errors.As(err, &credErr) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_LoginUnknownEmail(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email: "nobody@example.com", Password: "whatever",
	})
	var credErr *ErrInvalidCredentials
	if !errors.As(err, &credErr) {
		t.Fatalf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUserService_GetByIDNotFound(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.GetByID(context.Background(), uuid.New())
	var notFound *ErrUserNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
	if HTTPStatus(err) != 404 {
		t.Errorf("Expected status 404, got %d", HTTPStatus(err))
	}
}

func TestUserService_UpdatePasswordVerifiesCurrent(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "C", Email: "c@example.com", Password: "original-pass",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err = svc.UpdatePassword(ctx, user.ID, "not-the-password", "replacement-pass")
	var mismatch *ErrPasswordMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected ErrPasswordMismatch, got %v", err)
	}

	if err := svc.UpdatePassword(ctx, user.ID, "original-pass", "replacement-pass"); err != nil {
		t.Fatalf("UpdatePassword with correct current password failed: %v", err)
	}

	if _, err := svc.Login(ctx, &types.LoginRequest{Email: "c@example.com", Password: "replacement-pass"}); err != nil {
		t.Errorf("Login with new password failed: %v", err)
	}
}
