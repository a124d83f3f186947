package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ricky2013dev/smithpjt-verify/internal/auth"
	"github.com/ricky2013dev/smithpjt-verify/internal/config"
	"github.com/ricky2013dev/smithpjt-verify/internal/eligibility"
	"github.com/ricky2013dev/smithpjt-verify/internal/ledger"
	"github.com/ricky2013dev/smithpjt-verify/internal/patients"
	"github.com/ricky2013dev/smithpjt-verify/internal/script"
)

// Server bundles the router and the session manager.
type Server struct {
	Echo    *echo.Echo
	Manager *Manager
}

// New constructs the HTTP server with routes.
func New(cfg config.Config) *Server {
	e := newRouter()
	m := NewManager(cfg)
	authSvc := auth.New(cfg.JWTSecret, cfg.DemoUsername, cfg.DemoPassword)

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/api/login", authSvc.Login)

	api := e.Group("/api", authSvc.Middleware)

	api.GET("/patients", func(c echo.Context) error {
		return c.JSON(http.StatusOK, patients.Filter(patients.Query{
			Status: c.QueryParam("status"),
			Search: c.QueryParam("q"),
			Sort:   c.QueryParam("sort"),
		}))
	})
	api.GET("/patients/:id", func(c echo.Context) error {
		p, ok := patients.ByID(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"patient": p,
			"fields":  script.VerificationSeed(),
		})
	})

	api.POST("/verification/call", func(c echo.Context) error {
		id := m.StartCall()
		return c.JSON(http.StatusCreated, echo.Map{"session": id})
	})
	api.DELETE("/verification/call/:id", func(c echo.Context) error {
		if !m.EndCall(c.Param("id")) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no such session"})
		}
		return c.NoContent(http.StatusNoContent)
	})
	api.GET("/verification/call/:id", func(c echo.Context) error {
		sum, ok := m.Summary(c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no such session"})
		}
		return c.JSON(http.StatusOK, sum)
	})
	api.GET("/verification/call/:id/fields", func(c echo.Context) error {
		f := ledger.Filter(c.QueryParam("view"))
		if f == "" {
			f = ledger.FilterAll
		}
		recs, ok := m.Ledger(c.Param("id"), f)
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no such session"})
		}
		return c.JSON(http.StatusOK, recs)
	})

	api.POST("/verification/fax", func(c echo.Context) error {
		id := m.StartFax()
		return c.JSON(http.StatusCreated, echo.Map{"session": id, "findings": script.FaxFindings()})
	})
	api.DELETE("/verification/fax/:id", func(c echo.Context) error {
		if !m.ResetFax(c.Param("id")) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no such flow"})
		}
		return c.NoContent(http.StatusNoContent)
	})

	api.GET("/verification/stream", m.Stream)

	mountProxy(e, cfg)

	return &Server{Echo: e, Manager: m}
}

// mountProxy sits outside the dashboard JWT gate: the Authorization header
// on coverage calls carries the upstream bearer token and is forwarded
// verbatim, and the proxy's own missing-Authorization 401 is the only gate.
func mountProxy(e *echo.Echo, cfg config.Config) {
	p := eligibility.New(eligibility.Config{
		TokenURL:     cfg.EligibilityTokenURL,
		BaseURL:      cfg.EligibilityBaseURL,
		ClientID:     cfg.EligibilityClientID,
		ClientSecret: cfg.EligibilityClientSecret,
	})
	p.Register(e.Group("/api/eligibility"))
}
