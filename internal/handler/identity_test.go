package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"teamboard/internal/auth"
)

// newSecuredEcho mirrors the secured-group middleware configuration so
// the handlers are exercised behind the real JWT middleware.
func newSecuredEcho(secret string) *echo.Echo {
	e := echo.New()
	e.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))
	return e
}

func TestCurrentIdentity(t *testing.T) {
	const secret = "test-secret"
	jwtService := auth.NewJWTService(secret)
	userID := uuid.New()

	e := newSecuredEcho(secret)
	e.GET("/whoami", func(c echo.Context) error {
		caller, err := currentIdentity(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, caller.ID.String())
	})

	t.Run("bearer token resolves the caller identity", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, "Alice", "alice@example.com")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID.String(), rec.Body.String())
	})

	t.Run("missing token never reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		token, err := auth.NewJWTService("other-secret").GenerateAccessToken(userID, "Alice", "alice@example.com")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
