package middleware

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/khanadev/kms/internal/auth"
)

const PrincipalKey = "principal"

// JWT validates the bearer token and puts the authenticated Principal on the
// echo context. Services never read it implicitly; handlers pass it on as an
// explicit argument.
func JWT(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		SigningKey:    secret,
		ContextKey:    "token",
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("token").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return
			}
			c.Set(PrincipalKey, principalFromClaims(claims))
		},
	})
}

func principalFromClaims(claims jwt.MapClaims) auth.Principal {
	p := auth.Principal{}
	if sub, ok := claims["sub"].(float64); ok {
		p.ID = uint(sub)
	}
	if role, ok := claims["role"].(string); ok {
		p.Role = role
	}
	if cid, ok := claims["canteen_id"].(float64); ok {
		id := uint(cid)
		p.CanteenID = &id
	}
	return p
}

// Principal returns the authenticated caller set by the JWT middleware.
func Principal(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(auth.Principal)
	return p, ok
}
