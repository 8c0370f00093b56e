package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/bloodbank/internal/domain"
)

func (c *Controller) GetMe(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	me, err := c.users.Me(ctx.Request().Context(), a)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, me)
}

func (c *Controller) UpdateMe(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	var request domain.UpdateProfileRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	profile, err := c.users.UpdateMe(ctx.Request().Context(), a, request.Patch())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, profile)
}

func (c *Controller) ListProfiles(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	var request domain.ListProfilesRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	profiles, err := c.users.ListProfiles(ctx.Request().Context(), a, request.UserType)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, profiles)
}

func (c *Controller) SearchDonors(ctx echo.Context) error {
	var request domain.SearchDonorsRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	donors, err := c.users.SearchDonors(ctx.Request().Context(), request.BloodGroup, request.Available)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, donors)
}
