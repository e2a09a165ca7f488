// Package probe checks that a locally running server answers HTTP requests.
// Both binaries use it for their -probe flag.
package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

type Prober struct {
	client *resty.Client
}

// New returns a Prober that retries failed requests retries times
func New(timeout time.Duration, retries int) *Prober {
	return &Prober{
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(retries).
			SetRetryWaitTime(200 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			}),
	}
}

// Check issues GET url and fails unless the response is 2xx
func (p *Prober) Check(ctx context.Context, url string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("probe %s: unexpected status code %d", url, resp.StatusCode())
	}
	return nil
}

// LocalURL builds an http URL for reaching a listen address from the same
// host. Wildcard hosts are replaced with the loopback address.
func LocalURL(listenAddr, path string) (string, error) {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", listenAddr, err)
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + path, nil
}
