package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"chi-backend/internal/database"
	"chi-backend/internal/utility"
	emailverifier "github.com/AfterShip/email-verifier"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Tokens carry a long JWT expiry, but the session row is the source of
	// truth: a restart truncates the table and every old token dies with it.
	AccessTokenDuration = 30 * 24 * time.Hour

	MinPasswordLength = 6

	sessionCacheSize = 4096
)

// InvalidSessionMessage is the one user-facing string for any token that no
// longer resolves.
const InvalidSessionMessage = "Invalid session! Please log in again."

// ErrInvalidSession means the token does not resolve to a user; the client
// must log in again.
var ErrInvalidSession = errors.New("invalid session")

var (
	queries  *database.Queries
	verifier = emailverifier.NewVerifier()

	emailCache = sync.Map{}

	// sessionCache fronts the sessions table so each request costs at most
	// one lookup query, usually none.
	sessionCache *lru.Cache[string, string]
)

type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SignupRequest and LoginRequest share the same body shape.
type SignupRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type TokenRequest struct {
	Token string `json:"token" form:"token"`
}

type emailVerificationResult struct {
	valid     bool
	message   string
	timestamp time.Time
}

func InitAuth(dbpool *pgxpool.Pool) error {
	queries = database.New(dbpool)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("FATAL: SESSION_SECRET environment variable is not set")
	}

	var err error
	sessionCache, err = lru.New[string, string](sessionCacheSize)
	if err != nil {
		return fmt.Errorf("failed to create session cache: %w", err)
	}

	// The sessions store is fully cleared on startup: every token minted by
	// a previous process is invalid after a restart.
	if err := queries.DeleteAllSessions(context.Background()); err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	log.Println("Session store cleared; all prior sessions invalidated")

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}
	isProd := appEnv == "production"

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.MaxAge(600)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = isProd
	store.Options.SameSite = http.SameSiteLaxMode
	gothic.Store = store

	googleClientId := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	appUrl := os.Getenv("APP_URL")
	if googleClientId != "" && googleClientSecret != "" && appUrl != "" {
		callbackURL := fmt.Sprintf("%s/auth/google/callback", appUrl)
		goth.UseProviders(
			google.New(googleClientId, googleClientSecret, callbackURL),
		)
		log.Printf("Google OAuth enabled, callback URL: %s", callbackURL)
	} else {
		log.Println("Google OAuth not configured; only email/password auth available")
	}

	log.Printf("Auth initialized in '%s' mode. Secure cookies: %v.", appEnv, isProd)
	return nil
}

/* =================================================================================
							IDENTITY ERROR MAPPING
	Error codes keep the Firebase-style names the mobile clients already
	switch on; each maps to one user-facing message.
=================================================================================*/

var authCodeMessages = map[string]string{
	"auth/invalid-credential":   "Incorrect email or password!",
	"auth/email-already-in-use": "An account with this email already exists!",
	"auth/invalid-email":        "Please enter a valid email address!",
	"auth/weak-password":        fmt.Sprintf("Password should be at least %d characters!", MinPasswordLength),
	"auth/too-many-requests":    "Too many attempts! Please try again later.",
}

// authMessage maps an identity error code to its user-facing message;
// unmapped codes fall back to the supplied generic message.
func authMessage(code, fallback string) string {
	if msg, ok := authCodeMessages[code]; ok {
		return msg
	}
	return fallback
}

/* =================================================================================
								HANDLERS
=================================================================================*/

func SignupHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email and password are required!"})
	}

	if err := utility.CheckIPRateLimit(utility.GetRealIP(c)); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": authMessage("auth/too-many-requests", "")})
	}

	if code := validateSignupInput(req.Email, req.Password); code != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": authMessage(code, "Couldn't sign up!")})
	}

	exists, err := queries.CheckEmailExists(ctx, req.Email)
	if err != nil {
		log.Printf("Error checking email: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't sign up!"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": authMessage("auth/email-already-in-use", "Couldn't sign up!")})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't sign up!"})
	}

	user, err := queries.CreateUser(ctx, database.CreateUserParams{
		UserID:       uuid.New().String(),
		UserEmail:    strings.ToLower(req.Email),
		UserPassword: pgtype.Text{String: string(hashedPassword), Valid: true},
	})
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't sign up!"})
	}

	// A fresh account starts with an empty record for the signup day so the
	// dashboard has something to render before the first update.
	if err := queries.EnsureDailyRecord(ctx, user.UserID, time.Now()); err != nil {
		log.Printf("Warning: failed to create signup-day record: %v", err)
	}

	token, err := MintSession(ctx, user.UserID, user.UserEmail)
	if err != nil {
		log.Printf("Error minting session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't sign up!"})
	}

	log.Printf("New user under email %s created!", user.UserEmail)
	return c.JSON(http.StatusOK, map[string]string{
		"message":     "Signup successful!",
		"accessToken": token,
	})
}

func LoginHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email and password are required!"})
	}

	if err := utility.CheckIPRateLimit(utility.GetRealIP(c)); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": authMessage("auth/too-many-requests", "")})
	}

	user, err := queries.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			log.Printf("Error fetching user: %v", err)
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"message": authMessage("auth/invalid-credential", "Couldn't login!")})
	}

	// OAuth-only accounts have no password hash to compare.
	if !user.UserPassword.Valid {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": authMessage("auth/invalid-credential", "Couldn't login!")})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPassword.String), []byte(req.Password)); err != nil {
		log.Printf("Failed login attempt for email: %s", req.Email)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": authMessage("auth/invalid-credential", "Couldn't login!")})
	}

	if err := queries.UpdateLastLogin(ctx, user.UserID); err != nil {
		log.Printf("Warning: failed to update last login: %v", err)
	}

	token, err := MintSession(ctx, user.UserID, user.UserEmail)
	if err != nil {
		log.Printf("Error minting session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't login!"})
	}

	log.Printf("Login from email %s!", user.UserEmail)
	return c.JSON(http.StatusOK, map[string]string{
		"message":     "Login successful!",
		"accessToken": token,
	})
}

func LogoutHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req TokenRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": InvalidSessionMessage})
	}

	sessionCache.Remove(req.Token)
	if err := queries.DeleteSession(ctx, req.Token); err != nil {
		log.Printf("Error deleting session: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

/* =================================================================================
							SESSIONS & TOKENS
=================================================================================*/

// MintSession signs a JWT for the user and records it in the sessions store.
// The JWT lets clients introspect expiry offline; the server only trusts the
// stored row.
func MintSession(ctx context.Context, userID, email string) (string, error) {
	claims := &JwtCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "chi",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("SESSION_SECRET")))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := queries.CreateSession(ctx, signed, userID); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	sessionCache.Add(signed, userID)
	return signed, nil
}

// ResolveSession resolves an access token to its user id through the LRU
// cache and the sessions table. Every protected operation calls this with
// the token from the request body.
func ResolveSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidSession
	}

	if userID, ok := sessionCache.Get(token); ok {
		return userID, nil
	}

	userID, err := queries.GetSessionUser(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", ErrInvalidSession
		}
		return "", err
	}
	sessionCache.Add(token, userID)
	return userID, nil
}

// purgeUserSessions drops every cached token for the user; the table rows
// are deleted separately.
func purgeUserSessions(userID string) {
	for _, k := range sessionCache.Keys() {
		if uid, ok := sessionCache.Peek(k); ok && uid == userID {
			sessionCache.Remove(k)
		}
	}
}

/* =================================================================================
							EMAIL VALIDATION
=================================================================================*/

// validateSignupInput returns an identity error code, or "" when the input
// is acceptable.
func validateSignupInput(email, password string) string {
	if len(password) < MinPasswordLength {
		return "auth/weak-password"
	}
	valid, err := verifyEmailAddressWithCache(email)
	if err != nil {
		// Verification trouble is not the user's fault; let signup proceed.
		log.Printf("Email verification error: %v", err)
		return ""
	}
	if !valid {
		return "auth/invalid-email"
	}
	return ""
}

func verifyEmailAddress(email string) (bool, error) {
	syntax := verifier.ParseAddress(email)
	if !syntax.Valid {
		return false, nil
	}
	if verifier.IsDisposable(syntax.Domain) {
		return false, nil
	}
	return true, nil
}

func verifyEmailAddressWithCache(email string) (bool, error) {
	if cached, ok := emailCache.Load(email); ok {
		result := cached.(emailVerificationResult)
		if time.Since(result.timestamp) < time.Hour {
			return result.valid, nil
		}
	}

	valid, err := verifyEmailAddress(email)
	if err != nil {
		return false, err
	}

	emailCache.Store(email, emailVerificationResult{valid: valid, timestamp: time.Now()})
	return valid, nil
}
