package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/api/middleware"
	"github.com/99minutos/catalog-api/internal/core/domain"
)

// currentUser returns the user resolved by the authentication middleware.
// Routes using it sit behind RequireUser, so a missing user means the route
// was wired without the gate; reject rather than act anonymously.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.UserFrom(c)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
