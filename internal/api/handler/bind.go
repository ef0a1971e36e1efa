package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// bindAndValidate decodes the request into req and runs struct validation.
// A body that does not decode is reported as a missing field.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrMissingField)
	}
	return c.Validate(req)
}

func usernameParam(c echo.Context) (string, error) {
	username := c.Param("username")
	if username == "" {
		return "", fmt.Errorf("%w: username in URL", domain.ErrMissingField)
	}
	return username, nil
}
