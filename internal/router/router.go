// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API routes,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/secretmessage/internal/handler"
	"github.com/deppfellow/secretmessage/internal/middleware"
	"github.com/deppfellow/secretmessage/internal/model"
	"github.com/deppfellow/secretmessage/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain, the
// global error handler and every route.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerSecretMessageRoutes(router, h)

	return router
}

func registerSecretMessageRoutes(r *echo.Echo, h *handler.Handlers) {
	secrets := r.Group("/secret")

	secrets.POST("", handler.Handle(
		h.SecretMessage.Handler,
		h.SecretMessage.CreateSecretMessage,
		http.StatusCreated,
		func() *model.NewSecretMessage { return &model.NewSecretMessage{} },
	))

	secrets.GET("/:id", handler.Handle(
		h.SecretMessage.Handler,
		h.SecretMessage.GetSecretMessage,
		http.StatusOK,
		func() *model.GetSecretMessagePayload { return &model.GetSecretMessagePayload{} },
	))
}
