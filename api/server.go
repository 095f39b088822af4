package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	echo_contrib "github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/evmquery/evmquery/api/middlewares"
)

// TokenHeader carries the API token when no bearer token is sent.
const TokenHeader = "X-Evmquery-API-Token"

// ExtraOptions are options which change the behavior or the HTTP server.
type ExtraOptions struct {
	// Tokens are the access tokens which can access the API.
	Tokens []string

	// MetricsEndpoint turns on the /metrics endpoint for prometheus metrics.
	MetricsEndpoint bool

	// MetricsEndpointVerbose generates separate histograms based on query parameters on the /metrics endpoint.
	MetricsEndpointVerbose bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// RequestTimeout bounds the node queries of a single request, 0 disables it.
	RequestTimeout time.Duration
}

// NewRouter registers the middlewares and routes on a new echo instance.
func NewRouter(svc Querier, log *log.Logger, options ExtraOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if options.MetricsEndpoint {
		p := echo_contrib.NewPrometheus("evmquery", nil, nil)
		if options.MetricsEndpointVerbose {
			p.RequestCounterURLLabelMappingFunc = middlewares.PrometheusPathMapperVerbose
		} else {
			p.RequestCounterURLLabelMappingFunc = middlewares.PrometheusPathMapper404Sink
		}
		// This call installs the prometheus metrics collection middleware and
		// the "/metrics" handler.
		p.Use(e)
	}

	e.Use(middlewares.MakeLogger(log))
	e.Use(middleware.CORS())
	e.Use(middlewares.MakePNA())

	middleware := make([]echo.MiddlewareFunc, 0)
	if len(options.Tokens) > 0 {
		middleware = append(middleware, middlewares.MakeAuth(TokenHeader, options.Tokens))
	}

	api := ServerImplementation{
		svc:     svc,
		log:     log,
		timeout: options.RequestTimeout,
	}

	e.GET("/", api.Report, middleware...)
	v1 := e.Group("/v1", middleware...)
	v1.GET("/accounts/:address/balance", api.AccountBalance)
	v1.GET("/tokens/:token/balances/:owner", api.TokenBalance)
	e.GET("/health", api.MakeHealthCheck)

	return e
}

// Serve starts an http server for the API. This call blocks until ctx is done or the server
// fails.
func Serve(ctx context.Context, serveAddr string, svc Querier, log *log.Logger, options ExtraOptions) error {
	e := NewRouter(svc, log, options)

	getctx := func(l net.Listener) context.Context {
		return ctx
	}
	s := &http.Server{
		Addr:           serveAddr,
		ReadTimeout:    options.ReadTimeout,
		WriteTimeout:   options.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
		BaseContext:    getctx,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("serving on %s", serveAddr)
		errCh <- e.StartServer(s)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Allow one second for graceful shutdown.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
