package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, *mockStore) {
	t.Helper()
	store := newMockStore()
	// MinCost keeps the bcrypt rounds out of the test runtime.
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	return NewAuthService(store, passwords, testLogger()), store
}

func TestSignUp(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.SignUp(context.Background(), "leo", "correct horse")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if user.ID == "" {
		t.Error("expected user to have an ID")
	}
	if user.Username != "leo" {
		t.Errorf("Username = %q, want %q", user.Username, "leo")
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password was stored in the clear")
	}
}

func TestSignUp_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	longUsername := make([]byte, MaxUsernameLength+1)
	for i := range longUsername {
		longUsername[i] = 'a'
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"blank username", "", "correct horse"},
		{"whitespace username", "   ", "correct horse"},
		{"overlong username", string(longUsername), "correct horse"},
		{"username with space", "two words", "correct horse"},
		{"username with slash", "a/b", "correct horse"},
		{"short password", "leo", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), tt.username, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("SignUp(%q, %q) error = %v, want ErrValidation",
					tt.username, tt.password, err)
			}
		})
	}
}

func TestSignUp_DuplicateUsernameIsConflict(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.SignUp(context.Background(), "leo", "correct horse"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	_, err := svc.SignUp(context.Background(), "leo", "another pass")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("SignUp() duplicate error = %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	created, err := svc.SignUp(context.Background(), "leo", "correct horse")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	user, err := svc.Login(context.Background(), "leo", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("Login() returned user %q, want %q", user.ID, created.ID)
	}
}

func TestLogin_BadCredentialsAreIndistinguishable(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.SignUp(context.Background(), "leo", "correct horse"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), "nobody", "correct horse")
	_, wrongPassErr := svc.Login(context.Background(), "leo", "wrong pass")

	for name, err := range map[string]error{"unknown user": unknownErr, "wrong password": wrongPassErr} {
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Login() %s error = %v, want ErrValidation", name, err)
		}
	}

	// Same message either way, so the form can't leak which accounts exist.
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Errorf("error messages differ: %q vs %q", unknownErr, wrongPassErr)
	}
}
