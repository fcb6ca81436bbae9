package auth

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"chi-backend/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth/gothic"
)

// MobileGoogleAuthRequest carries the ID token the mobile Google SDK hands
// the app after the native sign-in flow.
type MobileGoogleAuthRequest struct {
	IDToken string `json:"id_token" form:"id_token"`
}

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Sub           string `json:"sub"`
}

// ProviderHandler starts the browser OAuth flow for /auth/:provider.
func ProviderHandler(c echo.Context) error {
	q := c.Request().URL.Query()
	q.Add("provider", c.Param("provider"))
	c.Request().URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Response(), c.Request())
	return nil
}

// CallbackHandler completes the browser OAuth flow and mints a session for
// the returned identity.
func CallbackHandler(c echo.Context) error {
	ctx := c.Request().Context()

	q := c.Request().URL.Query()
	q.Add("provider", c.Param("provider"))
	c.Request().URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Response(), c.Request())
	if err != nil {
		log.Printf("OAuth callback error: %v", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Couldn't login!"})
	}

	user, err := queries.UpsertOAuthUser(ctx, database.UpsertOAuthUserParams{
		UserID:         uuid.New().String(),
		UserEmail:      strings.ToLower(gothUser.Email),
		UserProvider:   pgtype.Text{String: gothUser.Provider, Valid: true},
		UserProviderID: pgtype.Text{String: gothUser.UserID, Valid: true},
	})
	if err != nil {
		log.Printf("Error upserting OAuth user: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't login!"})
	}

	token, err := MintSession(ctx, user.UserID, user.UserEmail)
	if err != nil {
		log.Printf("Error minting session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't login!"})
	}

	log.Printf("OAuth login from email %s!", user.UserEmail)
	return c.JSON(http.StatusOK, map[string]string{
		"message":     "Login successful!",
		"accessToken": token,
	})
}

// MobileGoogleAuthHandler verifies a Google ID token from the mobile SDK and
// mints a session, skipping the browser redirect dance entirely.
func MobileGoogleAuthHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req MobileGoogleAuthRequest
	if err := c.Bind(&req); err != nil || req.IDToken == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing Google ID token!"})
	}

	info, err := verifyGoogleIDToken(req.IDToken)
	if err != nil {
		log.Printf("Google ID token verification failed: %v", err)
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Couldn't login!"})
	}

	user, err := queries.UpsertOAuthUser(ctx, database.UpsertOAuthUserParams{
		UserID:         uuid.New().String(),
		UserEmail:      strings.ToLower(info.Email),
		UserProvider:   pgtype.Text{String: "google", Valid: true},
		UserProviderID: pgtype.Text{String: info.Sub, Valid: true},
	})
	if err != nil {
		log.Printf("Error upserting OAuth user: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't login!"})
	}

	token, err := MintSession(ctx, user.UserID, user.UserEmail)
	if err != nil {
		log.Printf("Error minting session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't login!"})
	}

	log.Printf("Mobile Google login from email %s!", user.UserEmail)
	return c.JSON(http.StatusOK, map[string]string{
		"message":     "Login successful!",
		"accessToken": token,
	})
}

// verifyGoogleIDToken checks the token against Google's tokeninfo endpoint
// and confirms it was issued for this app.
func verifyGoogleIDToken(idToken string) (*googleTokenInfo, error) {
	resp, err := http.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + idToken)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo returned status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo: %w", err)
	}

	if info.Aud != os.Getenv("GOOGLE_CLIENT_ID") {
		return nil, fmt.Errorf("token audience mismatch")
	}
	if info.EmailVerified != "true" {
		return nil, fmt.Errorf("google account email not verified")
	}
	if info.Email == "" {
		return nil, fmt.Errorf("tokeninfo missing email")
	}
	return &info, nil
}
