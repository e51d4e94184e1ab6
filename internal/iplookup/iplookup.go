// Package iplookup resolves the public address of the client behind a
// registration. Lookups are best effort: callers collapse failures to a
// default with Result.OrDefault instead of failing.
package iplookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

var ErrNoAddress = errors.New("no client address")

// Result distinguishes a resolved address from a failed lookup
type Result struct {
	IP  string
	Err error
}

// OrDefault returns the address, or def when the lookup failed
func (r Result) OrDefault(def string) string {
	if r.Err != nil || r.IP == "" {
		return def
	}
	return r.IP
}

// Resolver looks up the caller's public IP address
type Resolver interface {
	Lookup(ctx context.Context) Result
}

type clientIPKey struct{}

// WithClientIP stores the request's client address on the context
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromRequest picks the client address from proxy headers or the
// connection's remote address
func ClientIPFromRequest(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestResolver reports the address captured by WithClientIP
type RequestResolver struct{}

func (RequestResolver) Lookup(ctx context.Context) Result {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	if ip == "" {
		return Result{Err: ErrNoAddress}
	}
	return Result{IP: ip}
}

// HTTPResolver asks a public echo endpoint returning {"ip": "..."}.
// No retries.
type HTTPResolver struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPResolver creates a resolver for the given endpoint
func NewHTTPResolver(endpoint string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type ipResponse struct {
	IP string `json:"ip"`
}

func (h *HTTPResolver) Lookup(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint, nil)
	if err != nil {
		return Result{Err: fmt.Errorf("build lookup request: %w", err)}
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("lookup request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Err: fmt.Errorf("lookup status %d", resp.StatusCode)}
	}

	var body ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{Err: fmt.Errorf("decode lookup response: %w", err)}
	}
	if body.IP == "" {
		return Result{Err: ErrNoAddress}
	}
	return Result{IP: body.IP}
}
