package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/api/metrics"
	"github.com/99minutos/catalog-api/internal/api/middleware"
	"github.com/99minutos/catalog-api/internal/api/schema"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// storageErrorResponse is returned with 400 when storage rejects a request.
type storageErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ResourceHandler serves list/get/create/update/delete for one resource.
// E is the stored entity, I the input accepted by create and update.
type ResourceHandler[E any, I any] struct {
	resource string
	service  ports.CRUDService[E, I]
	schema   *schema.Schema
}

func NewResourceHandler[E any, I any](resource string, service ports.CRUDService[E, I], s *schema.Schema) *ResourceHandler[E, I] {
	return &ResourceHandler[E, I]{resource: resource, service: service, schema: s}
}

// Mount registers the five routes on g.
func (h *ResourceHandler[E, I]) Mount(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create, middleware.RequireSchema(h.schema))
	g.GET("/:id", h.Get, middleware.RequireValidID())
	g.PUT("/:id", h.Update, middleware.RequireValidID(), middleware.RequireSchema(h.schema))
	g.DELETE("/:id", h.Delete, middleware.RequireValidID())
}

func (h *ResourceHandler[E, I]) List(c echo.Context) error {
	rows, err := h.service.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ResourceHandler[E, I]) Get(c echo.Context) error {
	row, err := h.service.Get(c.Request().Context(), middleware.IDFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	if row == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Resource not found"})
	}
	return c.JSON(http.StatusOK, row)
}

func (h *ResourceHandler[E, I]) Create(c echo.Context) error {
	in, err := h.input(c)
	if err != nil {
		return err
	}
	row, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	metrics.ResourceWritesTotal.WithLabelValues(h.resource, "create").Inc()
	return c.JSON(http.StatusCreated, row)
}

func (h *ResourceHandler[E, I]) Update(c echo.Context) error {
	in, err := h.input(c)
	if err != nil {
		return err
	}
	row, err := h.service.Update(c.Request().Context(), middleware.IDFrom(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	if row == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Resource not found"})
	}
	metrics.ResourceWritesTotal.WithLabelValues(h.resource, "update").Inc()
	return c.JSON(http.StatusOK, row)
}

func (h *ResourceHandler[E, I]) Delete(c echo.Context) error {
	ok, err := h.service.Delete(c.Request().Context(), middleware.IDFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Not found, nothing deleted"})
	}
	metrics.ResourceWritesTotal.WithLabelValues(h.resource, "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// input decodes the schema-validated body into I.
func (h *ResourceHandler[E, I]) input(c echo.Context) (I, error) {
	var in I
	if err := json.Unmarshal(middleware.BodyFrom(c), &in); err != nil {
		return in, echo.NewHTTPError(http.StatusBadRequest, "request body validation failed: "+err.Error())
	}
	return in, nil
}

// fail answers client-caused storage errors with 400 and hands everything
// else to the HTTP error handler.
func (h *ResourceHandler[E, I]) fail(c echo.Context, err error) error {
	se, ok := domain.AsStorageError(err)
	if !ok {
		return err
	}
	metrics.StorageErrorsTotal.WithLabelValues(h.resource, se.Class(), se.Kind.String()).Inc()
	if !se.IsClientError() {
		return err
	}
	return c.JSON(http.StatusBadRequest, storageErrorResponse{
		Error:   se.Message,
		Code:    se.Code,
		Details: se.Details,
	})
}
