package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/moonchanyong/arom-server/config"
	v1 "github.com/moonchanyong/arom-server/internal/adapters/http/api/v1"
	internalhttp "github.com/moonchanyong/arom-server/internal/adapters/http/internal"
	"github.com/moonchanyong/arom-server/pkg/httperr"
	pkglog "github.com/moonchanyong/arom-server/pkg/log"
)

type Router struct {
	cfg       *config.Config
	logger    pkglog.Logger
	apiRouter *v1.Router
}

func NewRouter(cfg *config.Config, logger pkglog.Logger, apiRouter *v1.Router) *Router {
	return &Router{cfg: cfg, logger: logger, apiRouter: apiRouter}
}

func (r *Router) Setup(e *echo.Echo) {
	e.HideBanner = true
	e.HTTPErrorHandler = httperr.ErrorHandler(r.logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	root := e.Group("")
	internalhttp.Register(root)
	r.apiRouter.Register(root)
}
