package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/catalog-api/docs"
	"github.com/99minutos/catalog-api/internal/api/handler"
	"github.com/99minutos/catalog-api/internal/api/middleware"
	"github.com/99minutos/catalog-api/internal/api/schema"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

const docsIndex = "/api/docs/index.html"

// Deps is everything the router needs to serve requests.
type Deps struct {
	Logger     zerolog.Logger
	APIPrefix  string
	AuthScheme string
	Schemas    *schema.Registry

	Categories ports.CategoryService
	Products   ports.ProductService
	Orders     ports.OrderService
	OrderItems ports.OrderItemService
	Roles      ports.RoleService
	Users      ports.UserService

	// Ping checks database connectivity for the readiness probe.
	Ping func(ctx context.Context) error
	// Registerer receives the HTTP metrics; a private registry is used when nil.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registry := d.Registerer
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	gatherer := prometheus.Gatherers{prometheus.DefaultGatherer}
	if g, ok := registry.(prometheus.Gatherer); ok && registry != prometheus.DefaultRegisterer {
		gatherer = append(gatherer, g)
	}

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catalog",
		Registerer: registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Authenticate(d.Users, d.AuthScheme))

	// --- Health probes and metrics (no auth required) ---
	health := handler.NewHealthHandler(d.Ping)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	// --- API documentation ---
	e.GET("/", rootRedirect)
	e.GET("/api/docs/openapi.json", openAPIDocument)
	e.GET("/api/docs/*", echoSwagger.WrapHandler)

	api := e.Group(d.APIPrefix)

	// --- Auth routes ---
	auth := handler.NewAuthHandler(d.Users)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/logout", auth.Logout, middleware.RequireUser())
	authGroup.POST("/password", auth.ChangePassword, middleware.RequireUser())

	// --- Resources (authenticated) ---
	s := d.Schemas
	handler.NewResourceHandler("category", d.Categories, s.MustGet("category")).
		Mount(api.Group("/category", middleware.RequireUser()))
	handler.NewResourceHandler("product", d.Products, s.MustGet("product")).
		Mount(api.Group("/product", middleware.RequireUser()))
	handler.NewResourceHandler("order", d.Orders, s.MustGet("order")).
		Mount(api.Group("/order", middleware.RequireUser()))
	handler.NewResourceHandler("order-item", d.OrderItems, s.MustGet("order-item")).
		Mount(api.Group("/order-item", middleware.RequireUser()))
	handler.NewResourceHandler("role", d.Roles, s.MustGet("role")).
		Mount(api.Group("/role", middleware.RequireUser()))
	handler.NewResourceHandler[domain.User, domain.UserInput]("user", d.Users, s.MustGet("user")).
		Mount(api.Group("/user", middleware.RequireUser(), middleware.RequireSelf()))

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// rootRedirect sends browsers to the Swagger UI.
func rootRedirect(c echo.Context) error {
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML) {
		return c.Redirect(http.StatusFound, docsIndex)
	}
	return c.JSON(http.StatusOK, map[string]string{"docs": docsIndex})
}

func openAPIDocument(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
}
