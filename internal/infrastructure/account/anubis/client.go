package anubis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/padel-league/internal/domain/user"
	"github.com/riskibarqy/padel-league/internal/platform/cache"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
	"github.com/riskibarqy/padel-league/internal/platform/resilience"
	"github.com/riskibarqy/padel-league/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultCacheTTL    = 30 * time.Second
	maxIntrospectBytes = 1 << 20
)

type Config struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client verifies bearer tokens against the Anubis introspection endpoint.
type Client struct {
	http          *fasthttp.Client
	introspectURL string
	adminKey      string
	timeout       time.Duration
	cache         *cache.Store[user.Principal]
	breaker       *resilience.CircuitBreaker
	logger        *logging.Logger
}

func NewClient(httpClient *fasthttp.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "padel-league",
			MaxResponseBodySize: maxIntrospectBytes,
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &Client{
		http:          httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		timeout:       timeout,
		cache:         cache.NewStore[user.Principal](cacheTTL),
		breaker:       resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	return c.cache.GetOrLoad(ctx, hashToken(token), func(ctx context.Context) (user.Principal, error) {
		var principal user.Principal
		err := c.breaker.Execute(func() error {
			var err error
			principal, err = c.introspect(ctx, token)
			return err
		}, isCircuitFailure)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", string(c.breaker.State()))
			return user.Principal{}, fmt.Errorf("%w: identity service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return principal, err
	})
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.introspectURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}
	req.SetBodyRaw(encoded)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		c.logger.WarnContext(ctx, "anubis introspection request failed", "error", err)
		return user.Principal{}, fmt.Errorf("%w: %w: %s", usecase.ErrDependencyUnavailable, errAnubisTransient, err.Error())
	}

	status := resp.StatusCode()
	switch {
	case status >= fasthttp.StatusInternalServerError || status == fasthttp.StatusTooManyRequests:
		c.logger.WarnContext(ctx, "anubis introspection unavailable", "status_code", status)
		return user.Principal{}, fmt.Errorf("%w: %w: status %d", usecase.ErrDependencyUnavailable, errAnubisTransient, status)
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		c.logger.ErrorContext(ctx, "anubis rejected admin credentials", "status_code", status)
		return user.Principal{}, fmt.Errorf("%w: identity service rejected credentials", usecase.ErrDependencyUnavailable)
	case status != fasthttp.StatusOK:
		return user.Principal{}, fmt.Errorf("%w: introspection failed with status %d", usecase.ErrDependencyUnavailable, status)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("%w: decode introspect response: %s", usecase.ErrDependencyUnavailable, err.Error())
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if decoded.UserID <= 0 {
		return user.Principal{}, fmt.Errorf("%w: introspect response has no user_id", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID: int64(decoded.UserID),
		Email:  decoded.Email,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID userID `json:"user_id"`
	Email  string `json:"email"`
}
