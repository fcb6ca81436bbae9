package server

import (
	"net/http"

	"chi-backend/internal/admin"
	"chi-backend/internal/auth"
	"chi-backend/internal/user"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Platform"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(LoggerMiddleware)

	e.GET("/", s.rootHandler)
	e.GET("/health", s.healthHandler)

	// Auth routes
	e.POST("/signup", auth.SignupHandler)
	e.POST("/login", auth.LoginHandler)
	e.POST("/logout", auth.LogoutHandler)
	e.POST("/password/reset/request", auth.RequestPasswordResetHandler)
	e.POST("/password/reset/complete", auth.ResetPasswordHandler)

	// Web OAuth routes
	e.GET("/auth/:provider", auth.ProviderHandler)
	e.GET("/auth/:provider/callback", auth.CallbackHandler)

	// Mobile auth route - Android/iOS Google Sign-In
	e.POST("/auth/mobile/google", auth.MobileGoogleAuthHandler)

	// User data routes. The session token rides in the request body and each
	// handler resolves it itself, so there is no auth middleware group here.
	e.POST("/set_user_data", user.SetUserDataHandler)
	e.POST("/get_user_data", user.GetUserDataHandler)
	e.POST("/update_water", user.UpdateWaterHandler)
	e.POST("/update_sleep", user.UpdateSleepHandler)
	e.POST("/update_exercise", user.UpdateExerciseHandler)
	e.POST("/update_journal", user.UpdateJournalHandler)
	e.POST("/update_location", user.UpdateLocationHandler)
	e.POST("/get_lifestyle_score", user.GetLifestyleScoreHandler)
	e.POST("/get_advice", user.GetAdviceHandler)

	// Websocket for live score pushes
	e.GET("/ws/score", user.ScoreSocketHandler)

	// Operator diagnostics
	e.GET("/admin/system", admin.GetSystemStatsHandler)

	return e
}

func (s *Server) rootHandler(c echo.Context) error {
	return c.HTML(http.StatusOK, "<pre>In Development</pre>")
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
