package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminGuard restricts a route to reviewers. Withdrawal review, release
// review and royalty credits all sit behind it.
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := c.Get("role").(string)
		if !ok || role != "admin" {
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "admin access required",
			})
		}
		return next(c)
	}
}
