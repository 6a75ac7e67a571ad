// Package netprobe performs the live connectivity checks behind proxy health
// monitoring. It proves a proxy can actually carry a request end to end, not
// just that its port accepts connections.
package netprobe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
)

// HTTPProber tunnels one GET through the proxy under test. Any 2xx/3xx from
// the probe target counts as healthy; how the failure happened (dial, auth,
// TLS) does not matter to the health counters.
type HTTPProber struct {
	probeURL string
	timeout  time.Duration
}

// NewHTTPProber builds a prober against the given target URL.
func NewHTTPProber(probeURL string, timeout time.Duration) *HTTPProber {
	if probeURL == "" {
		probeURL = "https://www.google.com/generate_204"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProber{probeURL: probeURL, timeout: timeout}
}

func (p *HTTPProber) Probe(ctx context.Context, px domain.Proxy, credentials ports.ProxyCredentials) error {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var client *http.Client
	var err error
	switch px.Protocol {
	case domain.ProxySOCKS5:
		client, err = socks5Client(px, credentials)
	default:
		client, err = connectClient(px, credentials)
	}
	if err != nil {
		return fmt.Errorf("build probe client: %w", err)
	}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, p.probeURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("probe target returned %d", resp.StatusCode)
	}
	return nil
}

// connectClient tunnels through an HTTP(S) CONNECT proxy.
func connectClient(px domain.Proxy, credentials ports.ProxyCredentials) (*http.Client, error) {
	u := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", px.Host, px.Port),
	}
	if credentials.Username != "" || credentials.Password != "" {
		u.User = url.UserPassword(credentials.Username, credentials.Password)
	}
	transport := &http.Transport{
		Proxy: http.ProxyURL(u),
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}, nil
}

// socks5Client dials the probe target through a SOCKS5 proxy. x/net's dialer
// only exposes Dial, so it is wrapped to satisfy http.Transport.DialContext.
func socks5Client(px domain.Proxy, credentials ports.ProxyCredentials) (*http.Client, error) {
	addr := fmt.Sprintf("%s:%d", px.Host, px.Port)

	var auth *proxy.Auth
	if credentials.Username != "" || credentials.Password != "" {
		auth = &proxy.Auth{
			User:     credentials.Username,
			Password: credentials.Password,
		}
	}
	dialer, err := proxy.SOCKS5("tcp", addr, auth, &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	dialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
		type contextDialer interface {
			DialContext(ctx context.Context, network, address string) (net.Conn, error)
		}
		if cd, ok := dialer.(contextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		type plainDialer interface {
			Dial(network, address string) (net.Conn, error)
		}
		if pd, ok := dialer.(plainDialer); ok {
			return pd.Dial(network, addr)
		}
		return nil, errors.New("socks5 dialer does not implement Dial")
	}

	transport := &http.Transport{
		DialContext:           dialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}, nil
}
