// Package auth is the demo login stand-in: fixed credentials exchanged for
// a short-lived HS256 token that gates the dashboard API.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenTTL is the demo session length.
const TokenTTL = 8 * time.Hour

var validate = validator.New()

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service issues and verifies dashboard tokens.
type Service struct {
	secret   []byte
	username string
	password string
}

func New(secret, username, password string) *Service {
	return &Service{secret: []byte(secret), username: username, password: password}
}

// Login handles POST /api/login.
func (s *Service) Login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(creds); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if creds.Username != s.username || creds.Password != s.password {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, expiresAt, err := s.sign(creds.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": tok, "expiresAt": expiresAt})
}

func (s *Service) sign(username string) (string, int64, error) {
	expiresAt := time.Now().Add(TokenTTL).Unix()
	claims := jwt.MapClaims{
		"sub": username,
		"exp": expiresAt,
		"iat": time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return tok, expiresAt, err
}

// Verify parses and validates a bearer token string.
func (s *Service) Verify(raw string) error {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return err
	}
	if !tok.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// Middleware rejects requests without a valid bearer token.
func (s *Service) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token := ""
		if strings.HasPrefix(strings.ToLower(header), "bearer ") {
			token = strings.TrimSpace(header[len("bearer "):])
		}
		// WebSocket clients cannot set headers from the browser; allow the
		// token as a query parameter there.
		if token == "" {
			token = c.QueryParam("token")
		}
		if token == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
		}
		if err := s.Verify(token); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		return next(c)
	}
}
