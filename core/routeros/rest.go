package routeros

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"shaper-sync/core/config"

	"go.uber.org/zap"
)

// RESTClient talks to a RouterOS v7 REST endpoint. Each call retries a fixed
// number of times with a fixed delay, independent per router, so one flaky
// router only slows its own sources down.
type RESTClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
	log        *zap.Logger
}

// NewRESTClient builds a client for one configured router.
func NewRESTClient(router config.Router, log *zap.Logger) *RESTClient {
	scheme := "http"
	var tlsConfig *tls.Config
	if router.UseSSL {
		scheme = "https"
		// Access routers almost universally run self-signed certificates.
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &RESTClient{
		baseURL:  fmt.Sprintf("%s://%s:%d/rest", scheme, router.Address, router.Port),
		username: router.Username,
		password: router.Password,
		httpClient: &http.Client{
			Timeout:   time.Duration(router.TimeoutSeconds) * time.Second,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
		retries:    router.Retries,
		retryDelay: time.Duration(router.RetryDelaySeconds) * time.Second,
		log:        log.With(zap.String("router", router.Name)),
	}
}

// FetchResource implements Client.
func (c *RESTClient) FetchResource(ctx context.Context, path string, filters map[string]string) ([]Record, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retries; attempt++ {
		records, err := c.fetch(ctx, path, filters)
		if err == nil {
			return records, nil
		}
		lastErr = err
		c.log.Warn("Resource fetch failed",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Int("retries", c.retries),
			zap.Error(err),
		)

		if attempt == c.retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}

	return nil, fmt.Errorf("fetch %s after %d attempts: %w", path, c.retries, lastErr)
}

func (c *RESTClient) fetch(ctx context.Context, path string, filters map[string]string) ([]Record, error) {
	u := c.baseURL + path
	if len(filters) > 0 {
		q := url.Values{}
		for k, v := range filters {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return records, nil
}
