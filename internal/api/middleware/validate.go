package middleware

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/api/metrics"
	"github.com/99minutos/catalog-api/internal/api/schema"
)

const (
	idKey   = "id"
	bodyKey = "validated_body"
)

// validationResponse is the 400 body for schema violations.
type validationResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// RequireSchema validates the request body against s before the handler
// runs. The validated body is available through BodyFrom.
func RequireSchema(s *schema.Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unable to read request body")
			}
			if len(strings.TrimSpace(string(body))) == 0 {
				metrics.ValidationFailuresTotal.WithLabelValues(s.Name()).Inc()
				return c.JSON(http.StatusBadRequest, validationResponse{Error: "missing request body"})
			}

			violations, err := s.Validate(body)
			if err == schema.ErrInvalidJSON {
				metrics.ValidationFailuresTotal.WithLabelValues(s.Name()).Inc()
				return c.JSON(http.StatusBadRequest, validationResponse{Error: err.Error()})
			}
			if err != nil {
				return err
			}
			if len(violations) > 0 {
				metrics.ValidationFailuresTotal.WithLabelValues(s.Name()).Inc()
				return c.JSON(http.StatusBadRequest, validationResponse{
					Error:   "request body validation failed",
					Details: violations,
				})
			}

			normalized, err := schema.Normalize(body)
			if err != nil {
				return err
			}
			c.Set(bodyKey, normalized)
			return next(c)
		}
	}
}

// RequireValidID rejects a non-positive or non-numeric :id with 400 and
// stores the parsed value for IDFrom.
func RequireValidID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Param("id")
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id < 1 || strings.HasPrefix(raw, "+") {
				metrics.ValidationFailuresTotal.WithLabelValues("id").Inc()
				return c.JSON(http.StatusBadRequest, validationResponse{Error: "URL does not contain a valid object ID"})
			}
			c.Set(idKey, id)
			return next(c)
		}
	}
}

// IDFrom returns the id parsed by RequireValidID.
func IDFrom(c echo.Context) int64 {
	id, _ := c.Get(idKey).(int64)
	return id
}

// BodyFrom returns the body accepted by RequireSchema.
func BodyFrom(c echo.Context) []byte {
	b, _ := c.Get(bodyKey).([]byte)
	return b
}
