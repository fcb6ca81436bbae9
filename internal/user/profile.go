package user

import (
	"net/http"
	"time"

	"chi-backend/internal/auth"
	"chi-backend/internal/database"
	"chi-backend/internal/lifestyle"
	"chi-backend/internal/utility"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
)

type SetUserDataRequest struct {
	Token    string   `json:"token" form:"token"`
	Birthday string   `json:"birthday" form:"birthday"`
	Gender   string   `json:"gender" form:"gender"`
	Height   *float64 `json:"height" form:"height"`
	Weight   *float64 `json:"weight" form:"weight"`
}

const maxHeightFeet = 10

// SetUserDataHandler upserts the caller's health profile. Field validation
// runs before the session is resolved, so a malformed body never costs a
// session lookup.
func SetUserDataHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.LoggerFromContext(c)

	var req SetUserDataRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil || birthday.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid birthday"})
	}
	if !lifestyle.Gender(req.Gender).Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid gender"})
	}
	if req.Height == nil || *req.Height <= 0 || *req.Height > maxHeightFeet {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid height"})
	}
	if req.Weight == nil || *req.Weight < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid weight"})
	}

	userID, err := auth.ResolveSession(ctx, req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": auth.InvalidSessionMessage})
	}

	err = queries.UpsertHealthProfile(ctx, database.UpsertHealthProfileParams{
		UserID:     userID,
		Birthday:   pgtype.Date{Time: birthday, Valid: true},
		UserGender: req.Gender,
		HeightFt:   *req.Height,
		WeightLbs:  *req.Weight,
	})
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert health profile")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't save your data!"})
	}

	logger.Info().Str("user_id", userID).Msg("Health profile updated")
	return c.JSON(http.StatusOK, map[string]string{"message": "User data saved!"})
}

// GetUserDataHandler returns the caller's profile plus today's record, which
// is what the dashboard renders on open.
func GetUserDataHandler(c echo.Context) error {
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

	resp := map[string]interface{}{"message": "OK"}

	profile, err := store.Profile(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load profile")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't load your data!"})
	}
	if profile != nil {
		resp["profile"] = map[string]interface{}{
			"birthday": profile.Birthday.Format("2006-01-02"),
			"gender":   string(profile.Gender),
			"height":   profile.HeightFeet,
			"weight":   profile.WeightLbs,
			"age":      lifestyle.Age(profile.Birthday, time.Now()),
		}
	}

	record, err := store.Record(ctx, userID, time.Now())
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load today's record")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't load your data!"})
	}
	if record != nil {
		resp["today"] = map[string]interface{}{
			"water":    record.WaterOz,
			"sleep":    record.SleepHours,
			"exercise": record.ExerciseHours,
			"journal":  record.Journal,
		}
	}

	return c.JSON(http.StatusOK, resp)
}
