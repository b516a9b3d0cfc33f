package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty uid proves
// the middleware ran and the token carried an identity. Tokens without one
// are structurally valid but operationally unusable, so reject with 401.
func ctxActor(c echo.Context) (domain.Actor, error) {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	role, _ := c.Get("role").(string)

	return domain.Actor{ID: uid, Name: name, Role: role}, nil
}
