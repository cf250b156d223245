package auth

import (
	"context"
	"testing"
	"time"

	"swiftbus/internal/shared/config"
	"swiftbus/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*users.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	for _, user := range f.byEmail {
		if user.ID.String() == id {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			SessionTTL: 2 * time.Hour,
			CookieName: "token",
		},
	}
}

func TestSignupIssuesValidSessionToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.Signup(context.Background(), &SignupRequest{
		Email:    "rider@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if resp.User.Role != string(users.RoleRider) {
		t.Errorf("expected default role RIDER, got %s", resp.User.Role)
	}
	if resp.ExpiresIn != int64((2 * time.Hour).Seconds()) {
		t.Errorf("expected expires_in 7200, got %d", resp.ExpiresIn)
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken failed on fresh token: %v", err)
	}
	if claims.Email != "rider@example.com" {
		t.Errorf("expected email in claims, got %s", claims.Email)
	}
	if claims.Type != "session" {
		t.Errorf("expected type session, got %s", claims.Type)
	}
	if claims.SessionID == "" {
		t.Error("expected a session id in claims")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	req := &SignupRequest{Email: "dup@example.com", Password: "secret123"}
	if _, err := svc.Signup(context.Background(), req); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(context.Background(), req)
	if err != ErrUserAlreadyExists {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestSignupInvalidRoleFallsBackToRider(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.Signup(context.Background(), &SignupRequest{
		Email:    "weird@example.com",
		Password: "secret123",
		Role:     "SUPERUSER",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if resp.User.Role != string(users.RoleRider) {
		t.Errorf("expected RIDER for unknown role, got %s", resp.User.Role)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	repo.byEmail["known@example.com"] = &users.User{
		ID:       uuid.New(),
		Email:    "known@example.com",
		Password: string(hashed),
		Role:     users.RoleRider,
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "known@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("Login with correct password failed: %v", err)
	}

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "known@example.com",
		Password: "wrong-password",
	})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
}

func TestLoginUnknownEmailIsInvalidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.Signup(context.Background(), &SignupRequest{
		Email:    "rider@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "different-secret"
	otherSvc := NewService(repo, otherCfg)

	if _, err := otherSvc.ValidateToken(resp.Token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	repo := newFakeUserRepo()
	cfg := testConfig()
	cfg.JWT.SessionTTL = -time.Minute // already expired at mint time
	svc := NewService(repo, cfg)

	resp, err := svc.Signup(context.Background(), &SignupRequest{
		Email:    "rider@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if _, err := svc.ValidateToken(resp.Token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())

	if _, err := svc.ValidateToken("not-a-jwt"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
