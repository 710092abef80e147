package clients

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// GatewayProbe checks that the external payment widget script is
// reachable before a checkout opens the widget. A successful probe is
// cached for the process lifetime, mirroring a script that loads once per
// page; a failed probe is retried on the next attempt.
type GatewayProbe struct {
	scriptURL string
	client    *http.Client
	log       *logger.Logger

	mu     sync.Mutex
	loaded bool
}

func NewGatewayProbe(scriptURL string, timeout time.Duration, log *logger.Logger) *GatewayProbe {
	return &GatewayProbe{
		scriptURL: scriptURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

func (p *GatewayProbe) Available(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.scriptURL, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway script returned status %d", resp.StatusCode)
	}

	p.loaded = true
	p.log.Info("Payment gateway script verified", "script_url", p.scriptURL)
	return nil
}
