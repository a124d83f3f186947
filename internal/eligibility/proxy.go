// Package eligibility is the pass-through proxy to the payer eligibility
// API: it exchanges client credentials for a bearer token, caches it until
// shortly before expiry, and forwards coverage lookups verbatim.
package eligibility

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ricky2013dev/smithpjt-verify/pkg/log"
)

// expirySlack is subtracted from the upstream expires_in so a token is
// refreshed before the upstream actually rejects it.
const expirySlack = 60 * time.Second

// Config points the proxy at the upstream service.
type Config struct {
	TokenURL     string
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// Proxy holds the cached token and the upstream HTTP client.
type Proxy struct {
	cfg    Config
	client *http.Client

	mu          sync.Mutex
	tokenBody   []byte
	tokenExpiry time.Time
}

func New(cfg Config) *Proxy {
	return &Proxy{cfg: cfg, client: &http.Client{Timeout: 30 * time.Second}}
}

// Register mounts the proxy routes on g.
func (p *Proxy) Register(g *echo.Group) {
	g.POST("/token", p.Token)
	g.GET("/coverages/:id", p.GetCoverage)
	g.POST("/coverages", p.CreateCoverage)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns the cached upstream token response, fetching a new one via
// the client-credentials grant when the cache is empty or within a minute of
// expiry. The upstream JSON is passed through verbatim.
func (p *Proxy) Token(c echo.Context) error {
	p.mu.Lock()
	if p.tokenBody != nil && time.Now().Before(p.tokenExpiry) {
		body := p.tokenBody
		p.mu.Unlock()
		return c.JSONBlob(http.StatusOK, body)
	}
	p.mu.Unlock()

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost, p.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		log.Error(log.Fields{"err": err}, "token exchange failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.JSON(resp.StatusCode, echo.Map{"error": "token exchange failed", "details": string(body)})
	}

	var tok tokenResponse
	if jsonErr := json.Unmarshal(body, &tok); jsonErr == nil && tok.ExpiresIn > 0 {
		ttl := time.Duration(tok.ExpiresIn)*time.Second - expirySlack
		if ttl > 0 {
			p.mu.Lock()
			p.tokenBody = body
			p.tokenExpiry = time.Now().Add(ttl)
			p.mu.Unlock()
		}
	}
	return c.JSONBlob(http.StatusOK, body)
}

// GetCoverage forwards GET /coverages/:id upstream.
func (p *Proxy) GetCoverage(c echo.Context) error {
	return p.forward(c, http.MethodGet, "/coverages/"+url.PathEscape(c.Param("id")), nil)
}

// CreateCoverage forwards POST /coverages upstream with the inbound body.
func (p *Proxy) CreateCoverage(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return p.forward(c, http.MethodPost, "/coverages", body)
}

// forward relays a request with the caller's Authorization header and passes
// the upstream response through unchanged: status, body, and JSON-or-text
// content type. Failures are never retried.
func (p *Proxy) forward(c echo.Context, method, path string, body []byte) error {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
	}

	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(string(body))
	}
	req, err := http.NewRequestWithContext(c.Request().Context(), method, p.cfg.BaseURL+path, reader)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	req.Header.Set(echo.HeaderAuthorization, auth)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Error(log.Fields{"path": path, "err": err}, "eligibility upstream unreachable")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return c.JSONBlob(resp.StatusCode, out)
	}
	return c.Blob(resp.StatusCode, echo.MIMETextPlainCharsetUTF8, out)
}
