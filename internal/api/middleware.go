package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
)

func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(constants.HeaderAuthorization)
		if header == "" {
			return constants.ErrMissingAuthHeader
		}
		if !strings.HasPrefix(header, constants.BearerPrefix) {
			return constants.ErrInvalidToken
		}

		token, err := svc.authService.Authenticate(ctx.Request().Context(), strings.TrimPrefix(header, constants.BearerPrefix))
		if err != nil {
			return err
		}

		actor := token.Actor()
		ctx.Set(constants.CtxKeyActor, actor)
		ctx.Set(constants.CtxKeyToken, token)
		ctx.Set(constants.CtxKeyTokenID, token.Id)

		reqCtx := logger.WithFields(ctx.Request().Context(), "user_id", actor.UserID, "role", actor.Role)
		ctx.SetRequest(ctx.Request().WithContext(reqCtx))

		return next(ctx)
	}
}

// AdminMiddleware must run after AuthMiddleware.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		actor, ok := ctx.Get(constants.CtxKeyActor).(domain.Actor)
		if !ok {
			return constants.ErrUnauthorized
		}
		if err := actor.Require(domain.RoleAdmin); err != nil {
			return err
		}

		return next(ctx)
	}
}

func requestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Response().Header().Get(echo.HeaderXRequestID)
		if id != "" {
			reqCtx := logger.WithFields(ctx.Request().Context(), "request_id", id)
			ctx.SetRequest(ctx.Request().WithContext(reqCtx))
		}
		return next(ctx)
	}
}
