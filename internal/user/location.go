package user

import (
	"net/http"

	"chi-backend/internal/auth"
	"chi-backend/internal/database"
	"chi-backend/internal/utility"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
)

type UpdateLocationRequest struct {
	Token     string   `json:"token" form:"token"`
	Latitude  *float64 `json:"latitude" form:"latitude"`
	Longitude *float64 `json:"longitude" form:"longitude"`
	Label     string   `json:"label" form:"label"`
}

// UpdateLocationHandler stores the client's last reported position. The
// optional label ("Austin, TX") is what the advice prompt actually cites.
func UpdateLocationHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.LoggerFromContext(c)

	var req UpdateLocationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	if req.Latitude == nil || *req.Latitude < -90 || *req.Latitude > 90 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid latitude"})
	}
	if req.Longitude == nil || *req.Longitude < -180 || *req.Longitude > 180 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid longitude"})
	}

	userID, err := auth.ResolveSession(ctx, req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": auth.InvalidSessionMessage})
	}

	err = queries.UpsertUserLocation(ctx, database.UpsertUserLocationParams{
		UserID:    userID,
		Latitude:  utility.FloatToNumeric(*req.Latitude),
		Longitude: utility.FloatToNumeric(*req.Longitude),
		Label:     pgtype.Text{String: req.Label, Valid: req.Label != ""},
	})
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert location")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Couldn't save your data!"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Location updated!"})
}
