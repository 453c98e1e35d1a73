package shell

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"opshell/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// APIError 后端返回的非 2xx 结果（结构化错误，调用方自行决定如何呈现）
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.StatusCode)
}

// APIClient is the shell's thin HTTP client against the tenant API. Retry and
// timeout policy live here, in the transport, not in the loader.
type APIClient struct {
	http   *resty.Client
	logger *zap.Logger

	// invoked on any 401 so the session layer can drop the cached token and
	// restart the login flow. Left nil in bypass mode to avoid a redirect
	// loop in a mode with no real login.
	onUnauthorized func()
}

func NewAPIClient(apiBase string, logger *zap.Logger) *APIClient {
	client := resty.New().
		SetBaseURL(apiBase).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	return &APIClient{http: client, logger: logger}
}

// SetToken attaches the bearer token to subsequent requests.
func (c *APIClient) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// OnUnauthorized registers the 401 hook.
func (c *APIClient) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// FetchConfig retrieves a tenant's configuration. The request is cancellable
// through ctx; a non-2xx status or transport failure surfaces as an error and
// the caller must not keep any previous config.
func (c *APIClient) FetchConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error) {
	var cfg domain.TenantConfig
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&cfg).
		Get(fmt.Sprintf("/api/v1/tenants/%s/config", tenantID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tenant config: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *APIClient) checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}
	if code == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	c.logger.Warn("tenant API request failed",
		zap.String("url", resp.Request.URL),
		zap.Int("status_code", code),
	)
	return &APIError{StatusCode: code, Message: http.StatusText(code)}
}
