package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ErrInvalidToken is the message of the 401 returned for a missing or unknown token.
const ErrInvalidToken = "Invalid API Token"

// AuthMiddleware rejects requests which do not carry one of the accepted tokens.
type AuthMiddleware struct {
	header string
	tokens [][]byte
}

// MakeAuth constructs the auth middleware. A token is read from header, or from a bearer
// Authorization header.
func MakeAuth(header string, tokens []string) echo.MiddlewareFunc {
	auth := AuthMiddleware{header: header}
	for _, token := range tokens {
		auth.tokens = append(auth.tokens, []byte(token))
	}
	return auth.handler
}

func (auth *AuthMiddleware) handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if auth.accepts(auth.token(ctx.Request())) {
			return next(ctx)
		}
		return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidToken)
	}
}

func (auth *AuthMiddleware) token(req *http.Request) string {
	if token := req.Header.Get(auth.header); token != "" {
		return token
	}
	authorization := req.Header.Get(echo.HeaderAuthorization)
	if len(authorization) > len("Bearer ") && strings.EqualFold(authorization[:len("Bearer ")], "Bearer ") {
		return authorization[len("Bearer "):]
	}
	return ""
}

func (auth *AuthMiddleware) accepts(token string) bool {
	if token == "" {
		return false
	}
	found := false
	for _, accepted := range auth.tokens {
		// compare against every token so the timing does not tell which one matched.
		if subtle.ConstantTimeCompare([]byte(token), accepted) == 1 {
			found = true
		}
	}
	return found
}
