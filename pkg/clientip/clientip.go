package clientip

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/dmitrymomot/trialkit/pkg/logger"
)

// Config lists the proxies whose forwarding headers are believed.
type Config struct {
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","` // IPs or CIDRs, e.g. "10.0.0.0/8,127.0.0.1"
}

// Resolver finds the client IP of a request. Forwarding headers are only read
// when the direct peer is a trusted proxy; otherwise RemoteAddr is used.
type Resolver struct {
	trusted []netip.Prefix
}

// NewResolver builds a Resolver from cfg. With no trusted proxies every
// forwarding header is ignored.
func NewResolver(cfg Config) (*Resolver, error) {
	r := &Resolver{}
	for _, raw := range cfg.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("clientip: trusted proxy %q: %w", raw, err)
			}
			r.trusted = append(r.trusted, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("clientip: trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		r.trusted = append(r.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return r, nil
}

func (r *Resolver) isTrusted(addr netip.Addr) bool {
	for _, p := range r.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// FromRequest returns the normalized client IP of req, or "" if none can be parsed.
//
// Behind a trusted proxy CF-Connecting-IP, then X-Forwarded-For, then X-Real-IP
// are consulted. X-Forwarded-For is walked right to left and the first hop that
// is not itself a trusted proxy wins.
func (r *Resolver) FromRequest(req *http.Request) string {
	peer, ok := remoteAddr(req)
	if !ok {
		return ""
	}
	if !r.isTrusted(peer) {
		return peer.String()
	}

	if addr, ok := parse(req.Header.Get("CF-Connecting-IP")); ok {
		return addr.String()
	}
	if xff := req.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			addr, ok := parse(hops[i])
			if !ok {
				break
			}
			if !r.isTrusted(addr) {
				return addr.String()
			}
		}
	}
	if addr, ok := parse(req.Header.Get("X-Real-IP")); ok {
		return addr.String()
	}
	return peer.String()
}

// Middleware stores the client IP in the request context.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		next.ServeHTTP(w, req.WithContext(WithContext(req.Context(), r.FromRequest(req))))
	})
}

// FromRequest returns the IP of the direct peer, ignoring forwarding headers.
func FromRequest(req *http.Request) string {
	if addr, ok := remoteAddr(req); ok {
		return addr.String()
	}
	return ""
}

func remoteAddr(req *http.Request) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return parse(req.RemoteAddr)
	}
	return parse(host)
}

func parse(raw string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the IP stored by Middleware, or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// LoggerExtractor adds client_ip to log records.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		ip := FromContext(ctx)
		if ip == "" {
			return slog.Attr{}, false
		}
		return slog.String("client_ip", ip), true
	}
}
