package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/bloodbank/internal/domain"
)

func (c *Controller) ListBloodBanks(ctx echo.Context) error {
	banks, err := c.inventory.ListBloodBanks(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, banks)
}

func (c *Controller) GetBloodBank(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	bank, err := c.inventory.GetBloodBank(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, bank)
}

func (c *Controller) CreateBloodBank(ctx echo.Context) error {
	a, err := actor(ctx)
	if err != nil {
		return err
	}

	var request domain.CreateBloodBankRequest
	if err = ctx.Bind(&request); err != nil {
		return err
	}

	bank, err := c.inventory.CreateBloodBank(ctx.Request().Context(), a, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, bank)
}

// UpdateStock is the only HTTP entry to the ledger.
func (c *Controller) UpdateStock(ctx echo.Context) error {
	var request domain.UpdateStockRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	response, err := c.inventory.UpdateStock(ctx.Request().Context(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, response)
}
