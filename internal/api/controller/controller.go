package controller

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/utils"
	"github.com/ougirez/bloodbank/internal/service/auth"
	"github.com/ougirez/bloodbank/internal/service/inventory"
	"github.com/ougirez/bloodbank/internal/service/request"
	"github.com/ougirez/bloodbank/internal/service/stats"
	"github.com/ougirez/bloodbank/internal/service/user"
)

type Controller struct {
	auth      *auth.Service
	users     *user.Service
	inventory *inventory.Service
	requests  *request.Service
	stats     *stats.Service
}

func NewController(
	auth *auth.Service,
	users *user.Service,
	inventory *inventory.Service,
	requests *request.Service,
	stats *stats.Service,
) *Controller {
	return &Controller{
		auth:      auth,
		users:     users,
		inventory: inventory,
		requests:  requests,
		stats:     stats,
	}
}

// actor is set by AuthMiddleware.
func actor(ctx echo.Context) (domain.Actor, error) {
	a, ok := ctx.Get(constants.CtxKeyActor).(domain.Actor)
	if !ok {
		return domain.Actor{}, constants.ErrUnauthorized
	}
	return a, nil
}

func authToken(ctx echo.Context) (*utils.AuthTokenWrapper, error) {
	token, ok := ctx.Get(constants.CtxKeyToken).(*utils.AuthTokenWrapper)
	if !ok {
		return nil, constants.ErrUnauthorized
	}
	return token, nil
}

func idParam(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", ctx.Param("id"), constants.ErrBadRequest)
	}
	return id, nil
}
