package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/bloodbank/internal/domain"
)

func (c *Controller) ListOffers(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	offers, err := c.requests.ListOffers(ctx.Request().Context(), a)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, offers)
}

func (c *Controller) CreateOffer(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	var body domain.CreateOfferRequest
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	offer, err := c.requests.Offer(ctx.Request().Context(), a, body.RequestID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, offer)
}

func (c *Controller) DeleteOffer(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	if err = c.requests.WithdrawOffer(ctx.Request().Context(), a, id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}
