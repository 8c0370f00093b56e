package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) GetStats(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	stats, err := c.stats.Stats(ctx.Request().Context(), a)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, stats)
}
