package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/edustore/checkout-service/internal/infrastructure/monitoring"
	"github.com/edustore/checkout-service/internal/pkg/identity"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// httpClient is the shared base for every collaborator client: JSON over
// HTTP, bearer credential from the request context, a circuit breaker per
// upstream and an instrumented transport.
type httpClient struct {
	service string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	log     *logger.Logger
}

func newHTTPClient(service, baseURL string, timeout time.Duration, log *logger.Logger) *httpClient {
	settings := gobreaker.Settings{
		Name: service,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		Timeout: 30 * time.Second,
	}

	return &httpClient{
		service: service,
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		log:     log,
	}
}

func (c *httpClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := identity.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	end := monitoring.TimeUpstreamRequest(c.service)

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.client.Do(req)
	})
	if err != nil {
		end("transport_error")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		end(fmt.Sprintf("status_%d", resp.StatusCode))
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Body:       string(msg),
		}
	}
	end("ok")

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// open reports whether the breaker currently rejects calls.
func (c *httpClient) open() bool {
	return c.breaker.State() == gobreaker.StateOpen
}

type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}
