package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	pnaRequestHeader = "Access-Control-Request-Private-Network"
	pnaAllowHeader   = "Access-Control-Allow-Private-Network"
)

// MakePNA answers Private Network Access preflights so browser pages on public origins
// can query a daemon bound to localhost or a private address. Only OPTIONS requests
// asking for private network access get the allow header.
func MakePNA() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if isPNAPreflight(ctx.Request()) {
				ctx.Response().Header().Set(pnaAllowHeader, "true")
			}
			return next(ctx)
		}
	}
}

func isPNAPreflight(req *http.Request) bool {
	return req.Method == http.MethodOptions && req.Header.Get(pnaRequestHeader) == "true"
}
