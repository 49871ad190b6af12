package handlers

import (
	"errors"
	"net/http"

	"laundryops/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: common.NewValidator()}
}

func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return common.ValidationError(err)
	}
	return nil
}

// bindAndValidate binds the request into dst and runs struct validation. Binding
// failures, such as a non-numeric quantity, become validation errors.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		message := "invalid request body"
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Internal != nil {
			message = "invalid request body: " + httpErr.Internal.Error()
		}
		return common.NewValidationError("", message)
	}
	return c.Validate(dst)
}

// HTTPErrorHandler renders echo's own errors (unknown routes, bad methods) in the
// standard envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code := common.CodeInternal
		switch httpErr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			code = common.CodeNotFound
		case http.StatusBadRequest:
			code = common.CodeValidation
		case http.StatusUnauthorized:
			code = common.CodeUnauthorized
		}
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		_ = c.JSON(httpErr.Code, common.CreateErrorResponse(string(code), message, nil))
		return
	}
	_ = common.SendError(c, err)
}
