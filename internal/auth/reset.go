package auth

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"chi-backend/internal/utility"
	gomail "github.com/go-gomail/gomail"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetCodeTTL      = 10 * time.Minute
	resetMaxAttempts  = 3
	resetGenericReply = "If an account exists for that email, a reset code has been sent."
)

// resetOtpOpts gives each code a 60-second step with generous skew so a code
// emailed at the end of a step still validates.
var resetOtpOpts = totp.ValidateOpts{
	Period:    60,
	Skew:      5,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

type resetEntry struct {
	secret      string
	generatedAt time.Time
	attempts    int
}

// otpStore maps email -> pending reset entry. Entries are small and expire
// quickly, so a plain map is enough.
var otpStore = sync.Map{}

type PasswordResetRequest struct {
	Email string `json:"email" form:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" form:"email"`
	Code        string `json:"code" form:"code"`
	NewPassword string `json:"new_password" form:"new_password"`
}

// RequestPasswordResetHandler emails a six-digit code. The reply is the same
// whether or not the account exists.
func RequestPasswordResetHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email is required!"})
	}

	if err := utility.CheckIPRateLimit(utility.GetRealIP(c)); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": authMessage("auth/too-many-requests", "")})
	}

	email := strings.ToLower(req.Email)
	user, err := queries.GetUserByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists.
		return c.JSON(http.StatusOK, map[string]string{"message": resetGenericReply})
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "chi",
		AccountName: user.UserEmail,
	})
	if err != nil {
		log.Printf("Error generating reset secret: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't send reset code!"})
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), time.Now(), resetOtpOpts)
	if err != nil {
		log.Printf("Error generating reset code: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't send reset code!"})
	}

	otpStore.Store(email, &resetEntry{secret: key.Secret(), generatedAt: time.Now()})

	if err := sendResetEmail(user.UserEmail, code); err != nil {
		log.Printf("Error sending reset email: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't send reset code!"})
	}

	log.Printf("Password reset code sent to %s", user.UserEmail)
	return c.JSON(http.StatusOK, map[string]string{"message": resetGenericReply})
}

// ResetPasswordHandler validates the emailed code and replaces the password.
// All of the user's sessions are revoked on success.
func ResetPasswordHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email and code are required!"})
	}
	if len(req.NewPassword) < MinPasswordLength {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": authMessage("auth/weak-password", "")})
	}

	email := strings.ToLower(req.Email)
	val, ok := otpStore.Load(email)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid or expired reset code!"})
	}
	entry := val.(*resetEntry)

	if time.Since(entry.generatedAt) > resetCodeTTL {
		otpStore.Delete(email)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid or expired reset code!"})
	}

	entry.attempts++
	if entry.attempts > resetMaxAttempts {
		otpStore.Delete(email)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid or expired reset code!"})
	}

	valid, err := totp.ValidateCustom(req.Code, entry.secret, entry.generatedAt, resetOtpOpts)
	if err != nil || !valid {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid or expired reset code!"})
	}

	user, err := queries.GetUserByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid or expired reset code!"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't reset password!"})
	}

	if err := queries.UpdateUserPassword(ctx, user.UserID, pgtype.Text{String: string(hashedPassword), Valid: true}); err != nil {
		log.Printf("Error updating password: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't reset password!"})
	}

	otpStore.Delete(email)
	purgeUserSessions(user.UserID)
	if err := queries.DeleteUserSessions(ctx, user.UserID); err != nil {
		log.Printf("Warning: failed to revoke sessions after reset: %v", err)
	}

	log.Printf("Password reset for %s", user.UserEmail)
	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset successful! Please log in."})
}

func sendResetEmail(to, code string) error {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = username
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your chi password reset code")
	m.SetBody("text/plain",
		"Your password reset code is: "+code+"\n\n"+
			"It expires in 10 minutes. If you didn't request this, you can ignore this email.")

	d := gomail.NewDialer(host, port, username, password)
	return d.DialAndSend(m)
}
