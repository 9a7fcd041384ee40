// internal/domain/user/service_test.go
package user_test

import (
	"testing"

	"github.com/your-org/inventory-backend/internal/domain/user"
	"github.com/your-org/inventory-backend/internal/testutil"
)

func newUserService(t *testing.T) *user.Service {
	t.Helper()
	db := testutil.NewTestDB(t)
	return user.NewService(db, testutil.NewTestConfig())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService(t)

	registered, err := svc.Register(&user.RegisterRequest{
		Email:    "Siti@Example.com",
		Password: "Password123",
		FullName: "Siti Rahayu",
		Location: "shop1",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if registered.AccessToken == "" || registered.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if registered.User.Password != "" {
		t.Fatal("expected password cleared from the response")
	}
	if registered.User.Role != user.RoleSales {
		t.Fatalf("expected default sales role, got %s", registered.User.Role)
	}
	// Email is normalized before persisting
	if registered.User.Email != "siti@example.com" {
		t.Fatalf("expected normalized email, got %q", registered.User.Email)
	}

	logged, err := svc.Login(&user.LoginRequest{
		Email:    "siti@example.com",
		Password: "Password123",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if logged.User.LastLoginAt == nil {
		t.Fatal("expected last login to be stamped")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService(t)

	if _, err := svc.Register(&user.RegisterRequest{
		Email:    "siti@example.com",
		Password: "Password123",
		FullName: "Siti Rahayu",
	}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	if _, err := svc.Register(&user.RegisterRequest{
		Email:    "siti@example.com",
		Password: "Password456",
		FullName: "Impostor",
	}); err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newUserService(t)

	if _, err := svc.Register(&user.RegisterRequest{
		Email:    "siti@example.com",
		Password: "Password123",
		FullName: "Siti Rahayu",
	}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	if _, err := svc.Login(&user.LoginRequest{
		Email:    "siti@example.com",
		Password: "WrongPassword1",
	}); err == nil {
		t.Fatal("expected wrong password to be rejected")
	}
}

func TestRefreshToken(t *testing.T) {
	svc := newUserService(t)

	registered, err := svc.Register(&user.RegisterRequest{
		Email:    "siti@example.com",
		Password: "Password123",
		FullName: "Siti Rahayu",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	refreshed, err := svc.RefreshToken(registered.RefreshToken)
	if err != nil {
		t.Fatalf("failed to refresh token: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Fatal("expected a new access token")
	}

	if _, err := svc.RefreshToken("not-a-token"); err == nil {
		t.Fatal("expected a garbage refresh token to be rejected")
	}
}

func TestGetActor(t *testing.T) {
	svc := newUserService(t)

	registered, err := svc.Register(&user.RegisterRequest{
		Email:    "siti@example.com",
		Password: "Password123",
		FullName: "Siti Rahayu",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	actor, err := svc.GetActor(registered.User.ID)
	if err != nil {
		t.Fatalf("failed to resolve actor: %v", err)
	}
	if actor.ID != registered.User.ID || actor.Name != "Siti Rahayu" {
		t.Fatalf("unexpected actor identity: %+v", actor)
	}
}
