package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/bloodbank/internal/domain"
)

func (c *Controller) RegisterDonor(ctx echo.Context) error {
	var request domain.SignupDonorRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	response, err := c.users.RegisterDonor(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, response)
}

func (c *Controller) RegisterCivilian(ctx echo.Context) error {
	var request domain.SignupUserRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	response, err := c.users.RegisterCivilian(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, response)
}

func (c *Controller) LoginUser(ctx echo.Context) error {
	var request domain.LoginUserRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	response, err := c.auth.LoginUser(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, response)
}

func (c *Controller) RefreshToken(ctx echo.Context) error {
	var request domain.RefreshTokenRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	response, err := c.auth.Refresh(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, response)
}

func (c *Controller) LogoutUser(ctx echo.Context) error {
	token, err := authToken(ctx)
	if err != nil {
		return err
	}

	// тело необязательно
	var request domain.LogoutRequest
	if ctx.Request().ContentLength > 0 {
		if err = ctx.Bind(&request); err != nil {
			return err
		}
	}

	if err = c.auth.Logout(ctx.Request().Context(), token, request.Refresh); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}
