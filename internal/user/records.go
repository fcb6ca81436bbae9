package user

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"chi-backend/internal/auth"
	"chi-backend/internal/lifestyle"
	"chi-backend/internal/utility"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type UpdateMetricRequest struct {
	Token string   `json:"token" form:"token"`
	Data  *float64 `json:"data" form:"data"`
}

type UpdateJournalRequest struct {
	Token string `json:"token" form:"token"`
	Data  string `json:"data" form:"data"`
}

// metricWriter persists one metric for today. Each endpoint supplies its own.
type metricWriter func(ctx context.Context, userID string, date time.Time, value float64) error

// updateMetric is the shared body of the three numeric update endpoints:
// validate, resolve the session, upsert today's value, then recompute the
// score off the request path.
func updateMetric(c echo.Context, invalidMsg, okMsg string, write metricWriter) error {
	ctx := c.Request().Context()
	logger := utility.LoggerFromContext(c)

	var req UpdateMetricRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	if req.Data == nil || *req.Data < 0 || math.IsNaN(*req.Data) || math.IsInf(*req.Data, 0) {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": invalidMsg})
	}

	userID, err := auth.ResolveSession(ctx, req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": auth.InvalidSessionMessage})
	}

	if err := write(ctx, userID, time.Now(), *req.Data); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert daily metric")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't save your data!"})
	}

	go recomputeAndPushScore(userID)

	return c.JSON(http.StatusOK, map[string]string{"message": okMsg})
}

func UpdateWaterHandler(c echo.Context) error {
	return updateMetric(c, "Invalid water amount", "Water intake updated!", queries.UpsertDailyWater)
}

func UpdateSleepHandler(c echo.Context) error {
	return updateMetric(c, "Invalid sleep amount", "Sleep updated!", queries.UpsertDailySleep)
}

func UpdateExerciseHandler(c echo.Context) error {
	return updateMetric(c, "Invalid exercise amount", "Exercise updated!", queries.UpsertDailyExercise)
}

// UpdateJournalHandler stores today's free-text journal entry.
func UpdateJournalHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.LoggerFromContext(c)

	var req UpdateJournalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	if strings.TrimSpace(req.Data) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid journal entry"})
	}

	userID, err := auth.ResolveSession(ctx, req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": auth.InvalidSessionMessage})
	}

	if err := queries.UpsertDailyJournal(ctx, userID, time.Now(), req.Data); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert journal entry")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't save your data!"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Journal updated!"})
}

// recomputeAndPushScore refreshes the score after a metric write and pushes
// it to the user's live socket. Runs in its own goroutine with its own
// context; a failure here never affects the update response.
func recomputeAndPushScore(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	score, err := lifestyle.ComputeScore(ctx, store, refTable, userID, time.Now())
	if err != nil {
		// Most commonly the profile is not set up yet; nothing to push.
		return
	}
	utility.PushScoreUpdate(userID, score)
	log.Debug().Str("user_id", userID).Float64("score", score).Msg("Score pushed")
}
