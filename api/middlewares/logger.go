package middlewares

import (
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// LoggerMiddleware writes one line per request.
type LoggerMiddleware struct {
	log *log.Logger
}

// MakeLogger constructs the request logging middleware.
func MakeLogger(log *log.Logger) echo.MiddlewareFunc {
	logger := LoggerMiddleware{
		log: log,
	}

	return logger.handler
}

func (logger *LoggerMiddleware) handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) (err error) {
		start := time.Now()

		res := ctx.Response()
		req := ctx.Request()

		// Write the error response here so the status below is the one sent.
		if err = next(ctx); err != nil {
			ctx.Error(err)
		}

		// the request URI is left out, it may contain addresses the route pattern hides.
		logger.log.WithFields(log.Fields{
			"remote":     ctx.RealIP(),
			"method":     req.Method,
			"route":      ctx.Path(),
			"proto":      req.Proto,
			"status":     res.Status,
			"bytes_out":  res.Size,
			"user_agent": req.UserAgent(),
			"latency":    time.Since(start).String(),
		}).Infof("%s %s %d", req.Method, ctx.Path(), res.Status)

		return
	}
}
