package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	lru "github.com/hashicorp/golang-lru/v2"
)

func TestAuthMessageKnownCodes(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"auth/invalid-credential", "Incorrect email or password!"},
		{"auth/email-already-in-use", "An account with this email already exists!"},
		{"auth/invalid-email", "Please enter a valid email address!"},
		{"auth/weak-password", "Password should be at least 6 characters!"},
		{"auth/too-many-requests", "Too many attempts! Please try again later."},
	}
	for _, tc := range cases {
		if got := authMessage(tc.code, "fallback"); got != tc.want {
			t.Errorf("authMessage(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestAuthMessageUnknownCodeFallsBack(t *testing.T) {
	if got := authMessage("auth/something-new", "Couldn't login!"); got != "Couldn't login!" {
		t.Errorf("got %q, want fallback", got)
	}
	if got := authMessage("", "Couldn't sign up!"); got != "Couldn't sign up!" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestValidateSignupInputWeakPassword(t *testing.T) {
	if code := validateSignupInput("someone@example.com", "12345"); code != "auth/weak-password" {
		t.Errorf("got %q, want auth/weak-password", code)
	}
}

func TestValidateSignupInputBadEmail(t *testing.T) {
	for _, email := range []string{"not-an-email", "missing@", "@nodomain"} {
		if code := validateSignupInput(email, "longenough"); code != "auth/invalid-email" {
			t.Errorf("validateSignupInput(%q) = %q, want auth/invalid-email", email, code)
		}
	}
}

func TestValidateSignupInputAccepts(t *testing.T) {
	if code := validateSignupInput("someone@example.com", "longenough"); code != "" {
		t.Errorf("got %q, want empty code", code)
	}
}

func TestJwtClaimsRoundTrip(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	claims := &JwtCustomClaims{
		UserID: "user-123",
		Email:  "someone@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "chi",
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	parsed := &JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(signed, parsed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parsing: %v", err)
	}
	if parsed.UserID != "user-123" || parsed.Email != "someone@example.com" {
		t.Errorf("claims mismatch: %+v", parsed)
	}
}

func TestPurgeUserSessions(t *testing.T) {
	var err error
	sessionCache, err = lru.New[string, string](sessionCacheSize)
	if err != nil {
		t.Fatalf("lru.New: %v", err)
	}
	sessionCache.Add("token-a", "user-1")
	sessionCache.Add("token-b", "user-1")
	sessionCache.Add("token-c", "user-2")

	purgeUserSessions("user-1")

	if _, ok := sessionCache.Get("token-a"); ok {
		t.Error("token-a should have been purged")
	}
	if _, ok := sessionCache.Get("token-b"); ok {
		t.Error("token-b should have been purged")
	}
	if _, ok := sessionCache.Get("token-c"); !ok {
		t.Error("token-c belongs to another user and must survive")
	}
}
