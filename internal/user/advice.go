package user

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"chi-backend/internal/auth"
	"chi-backend/internal/database"
	"chi-backend/internal/geminiservice"
	"chi-backend/internal/lifestyle"
	"chi-backend/internal/utility"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// GetLifestyleScoreHandler computes the caller's 14-day lifestyle score.
func GetLifestyleScoreHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.LoggerFromContext(c)

	var req struct {
		Token string `json:"token" form:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	userID, err := auth.ResolveSession(ctx, req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": auth.InvalidSessionMessage})
	}

	score, err := lifestyle.ComputeScore(ctx, store, refTable, userID, time.Now())
	if err != nil {
		if err == lifestyle.ErrProfileMissing {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Set up your profile first!"})
		}
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to compute lifestyle score")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't compute your score!"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "OK",
		"score":   score,
	})
}

// GetAdviceHandler assembles the caller's full context, builds the prompt and
// asks the text-generation service for today's advice.
func GetAdviceHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.LoggerFromContext(c)

	var req struct {
		Token string `json:"token" form:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	userID, err := auth.ResolveSession(ctx, req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": auth.InvalidSessionMessage})
	}

	now := time.Now()

	// The three reads are independent; fetch them concurrently.
	var (
		profile  *lifestyle.UserProfile
		record   *lifestyle.DailyRecord
		location string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = store.Profile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		record, err = store.Record(gctx, userID, now)
		return err
	})
	g.Go(func() error {
		loc, err := queries.GetUserLocation(gctx, userID)
		if err != nil {
			if err == database.ErrNotFound {
				return nil
			}
			return err
		}
		if loc.Label.Valid && loc.Label.String != "" {
			location = loc.Label.String
		} else {
			location = fmt.Sprintf("%.4f, %.4f",
				utility.NumericToFloat(loc.Latitude), utility.NumericToFloat(loc.Longitude))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load advice context")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't generate advice!"})
	}

	if profile == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Set up your profile first!"})
	}
	if record == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "No health data recorded today!"})
	}
	if strings.TrimSpace(record.Journal) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Write a journal entry first!"})
	}

	score, err := lifestyle.ComputeScore(ctx, store, refTable, userID, now)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to compute lifestyle score")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't generate advice!"})
	}

	age := lifestyle.Age(profile.Birthday, now)
	targets := lifestyle.Midpoints{
		WaterOz:       midpointFor(age, profile.Gender, lifestyle.CategoryWater),
		SleepHours:    midpointFor(age, profile.Gender, lifestyle.CategorySleep),
		ExerciseHours: midpointFor(age, profile.Gender, lifestyle.CategoryExercise),
	}

	prompt := lifestyle.BuildPrompt(*record, *profile, score, targets, location, now)

	advice, err := geminiservice.GenerateAdvice(ctx, logger, prompt)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Advice generation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't generate advice! Please try again later."})
	}
	if advice == "" {
		// The model produced nothing usable; the client shows its own
		// fallback when it sees this sentinel.
		advice = "Invalid"
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "OK",
		"advice":  advice,
	})
}

// midpointFor resolves one recommended midpoint, falling back to 0 when the
// table has no row, which the prompt renders as a 0.0 target.
func midpointFor(age int, gender lifestyle.Gender, category lifestyle.Category) float64 {
	r, err := lifestyle.Resolve(refTable, age, gender, category)
	if err != nil {
		return 0
	}
	return r.Midpoint()
}
