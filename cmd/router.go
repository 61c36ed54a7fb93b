package main

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/furnet-labs/furnet/internal/handler"
)

func newRouter(log *slog.Logger, api *handler.API) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	handler.RegisterErrorHandler(e, log)
	api.Register(e)

	return e
}
