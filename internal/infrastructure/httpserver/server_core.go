package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/naotimes/qingque-api/internal/application/services"
	"github.com/naotimes/qingque-api/internal/core/ports"
	customMiddleware "github.com/naotimes/qingque-api/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
	Environment  string
	// ShowErrorDetails leaks underlying error causes into the JSON envelope;
	// development only.
	ShowErrorDetails bool
	// StrictSecret enables the shared-secret gate on the info routes when
	// non-empty.
	StrictSecret string
}

type ServerDeps struct {
	ExchangeService *services.ExchangeService
	HoyolabService  *services.HoyolabService
	MihomoService   *services.MihomoService
	HealthCheckers  []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	exchangeSvc    *services.ExchangeService
	hoyolabSvc     *services.HoyolabService
	mihomoSvc      *services.MihomoService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		exchangeSvc:    deps.ExchangeService,
		hoyolabSvc:     deps.HoyolabService,
		mihomoSvc:      deps.MihomoService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			logger,
			serverConfig.StrictSecret,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
