package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/orgbook/orgbook-api/src/internal/adapter/http/models"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/usecase/services"
)

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]domain.User)}
}

func (r *fakeUserRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.User{}, domain.ErrInvalidInput
		}
	}
	user.ID = uuid.NewString()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrRecordNotFound
}

func TestUserServiceRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepository()
	svc := services.NewUserService(repo, "test-secret", "")
	ctx := context.Background()

	registered, err := svc.Register(ctx, models.RegisterUserRequest{
		Email:     "Jo@Example.com",
		Password:  "correct horse",
		FirstName: "Jo",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Data.Email != "jo@example.com" {
		t.Fatalf("expected lowercased email, got %q", registered.Data.Email)
	}
	if registered.Data.Role != string(domain.UserRoleUser) {
		t.Fatalf("expected USER role, got %q", registered.Data.Role)
	}

	stored, err := repo.GetByEmail(ctx, "jo@example.com")
	if err != nil {
		t.Fatalf("get stored user: %v", err)
	}
	if stored.PasswordHash == "correct horse" || stored.PasswordHash == "" {
		t.Fatal("expected password to be stored hashed")
	}

	login, err := svc.Login(ctx, models.LoginRequest{
		Email:    "jo@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Data.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if strings.Count(login.Data.AccessToken, ".") != 2 {
		t.Fatalf("expected a JWT, got %q", login.Data.AccessToken)
	}
}

func TestUserServiceLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepository()
	svc := services.NewUserService(repo, "test-secret", "")
	ctx := context.Background()

	if _, err := svc.Register(ctx, models.RegisterUserRequest{
		Email:     "jo@example.com",
		Password:  "correct horse",
		FirstName: "Jo",
		LastName:  "Doe",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, models.LoginRequest{
		Email:    "jo@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for wrong password, got %v", err)
	}
}

func TestUserServiceRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepository()
	svc := services.NewUserService(repo, "test-secret", "")
	ctx := context.Background()

	req := models.RegisterUserRequest{
		Email:     "jo@example.com",
		Password:  "correct horse",
		FirstName: "Jo",
		LastName:  "Doe",
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate email, got %v", err)
	}
}

func TestUserServiceBootstrapAdminEmail(t *testing.T) {
	repo := newFakeUserRepository()
	svc := services.NewUserService(repo, "test-secret", "Root@Example.com")

	registered, err := svc.Register(context.Background(), models.RegisterUserRequest{
		Email:     "root@example.com",
		Password:  "correct horse",
		FirstName: "Root",
		LastName:  "Admin",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Data.Role != string(domain.UserRoleAdmin) {
		t.Fatalf("expected bootstrap admin role, got %q", registered.Data.Role)
	}
}

func TestUserServiceRegisterValidation(t *testing.T) {
	svc := services.NewUserService(newFakeUserRepository(), "test-secret", "")

	_, err := svc.Register(context.Background(), models.RegisterUserRequest{
		Email:    "not-an-email",
		Password: "short",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
