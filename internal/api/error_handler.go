package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	msg := err.Error()
	code := http.StatusInternalServerError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		if ce, ok := e.(*constants.CodedError); ok {
			code = ce.Code()
			break
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Errorf(c.Request().Context(), "%s %s: %v", c.Request().Method, c.Path(), err)
		msg = http.StatusText(code)
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
