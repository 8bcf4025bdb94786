package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/interfac/user-manager/internal/core/domain"
)

// ctxPrincipal extracts the auth claims injected by the Auth middleware.
// A missing username means the middleware never ran on this route, which is
// a wiring fault surfaced as 401 rather than a panic downstream.
func ctxPrincipal(c echo.Context) (username, role string, err error) {
	username, _ = c.Get("username").(string)
	if username == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get("role").(string)
	return username, role, nil
}

// canTouchUser reports whether the caller may edit the target record:
// admins may touch anyone, other callers only their own record.
func canTouchUser(role, principal, targetUsername string) bool {
	return role == domain.RoleAdmin || principal == targetUsername
}
