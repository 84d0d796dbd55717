package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User // keyed by email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Email] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := u
	return &clone, nil
}

func newAuthService() ports.AuthService {
	return NewAuthService(AuthServiceConfig{
		Repository: newFakeUserRepo(),
		Logger:     testLogger(),
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
	})
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jane", "Jane@Acme.com", "hunter2hunter2", domain.RoleManager)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "jane@acme.com" {
		t.Fatalf("stored email = %q, want normalized", user.Email)
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Fatalf("password stored in the clear")
	}

	if _, err := svc.Register(ctx, "Jane Again", "jane@acme.com", "different", domain.RoleUser); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate register = %v, want ErrUserExists", err)
	}

	token, loggedIn, err := svc.Login(ctx, "JANE@acme.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned user %q, want %q", loggedIn.ID, user.ID)
	}

	actor, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if actor.Email != "jane@acme.com" || actor.Role != domain.RoleManager || actor.ID != user.ID {
		t.Fatalf("actor = %+v", actor)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "Jane", "jane@acme.com", "correct-horse", domain.RoleUser); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "jane@acme.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@acme.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user = %v, want ErrInvalidCredentials", err)
	}
}

func TestParseTokenRejectsForgeries(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "Jane", "jane@acme.com", "correct-horse", domain.RoleUser); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(ctx, "jane@acme.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ParseToken(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered token = %v, want ErrInvalidToken", err)
	}

	// A token from a service with another secret must not verify.
	other := NewAuthService(AuthServiceConfig{
		Repository: newFakeUserRepo(),
		Logger:     testLogger(),
		JWTSecret:  "other-secret",
		TokenTTL:   time.Hour,
	})
	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("cross-secret token = %v, want ErrInvalidToken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "", "jane@acme.com", "pw", domain.RoleUser); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty name = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Register(ctx, "Jane", "  ", "pw", domain.RoleUser); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("blank email = %v, want ErrInvalidCredentials", err)
	}

	user, err := svc.Register(ctx, "Jane", "jane@acme.com", "pw123456", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("default role = %q, want user", user.Role)
	}
}
