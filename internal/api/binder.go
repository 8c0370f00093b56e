package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
)

// Binder binds path, query and body, then runs the validator.
type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			msg = fmt.Sprint(he.Message)
			if he.Internal != nil {
				logger.Debugf(c.Request().Context(), "bind: %v", he.Internal)
			}
		}
		return fmt.Errorf("%s: %w", msg, constants.ErrBadRequest)
	}

	return c.Validate(i)
}

// sonicSerializer replaces encoding/json in echo's c.JSON and body binding.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigDefault.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

// Deserialize keeps the decoder's own message out of the response; it stays
// in Internal for the logs.
func (sonicSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := sonic.ConfigDefault.NewDecoder(c.Request().Body).Decode(i); err != nil {
		msg := "invalid json body"
		if errors.Is(err, constants.ErrInvalidQuantity) {
			msg = constants.ErrInvalidQuantity.Error()
		}
		return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
	}
	return nil
}
