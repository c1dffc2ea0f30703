package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/chamadasimples/chamada/core/attendance"
)

// sessionRequired blocks every gated route until a session is open. The
// Store itself does not enforce this; the presentation layer owns the gate.
func sessionRequired(store *attendance.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !store.LoggedIn() {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}
