package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/bloodbank/internal/domain"
)

func (c *Controller) ListRequests(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	var request domain.ListRequestsRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	requests, err := c.requests.ListRequests(ctx.Request().Context(), a, request.Status)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, requests)
}

func (c *Controller) GetRequest(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	request, err := c.requests.GetRequest(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, request)
}

func (c *Controller) CreateRequest(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	var body domain.CreateDonationRequestRequest
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	request, err := c.requests.Submit(ctx.Request().Context(), a, body.BloodGroup, int(body.Quantity), body.Address)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, request)
}

func (c *Controller) UpdateRequestStatus(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	var body domain.UpdateRequestStatusRequest
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	request, err := c.requests.UpdateStatus(ctx.Request().Context(), a, &body)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, request)
}
