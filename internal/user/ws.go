package user

import (
	"net/http"

	"chi-backend/internal/auth"
	"chi-backend/internal/utility"
	"github.com/labstack/echo/v4"
)

// ScoreSocketHandler upgrades GET /ws/score to a websocket that receives
// {"score": x} pushes after each metric update. The token rides the query
// string because browsers cannot set headers on websocket dials.
func ScoreSocketHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.LoggerFromContext(c)

	userID, err := auth.ResolveSession(ctx, c.QueryParam("token"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": auth.InvalidSessionMessage})
	}

	conn, err := utility.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Websocket upgrade failed")
		return err
	}

	utility.RegisterClient(userID, conn)

	// Drain reads until the peer goes away; pushes happen from the write
	// side in the utility hub.
	go func() {
		defer func() {
			utility.UnregisterClient(userID, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}
