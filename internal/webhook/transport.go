package webhook

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// TrustMode selects how HTTPS webhook certificates are verified.
type TrustMode string

const (
	// TrustPermissive accepts TLS 1.0-1.2 and skips certificate and hostname
	// verification, for self-signed internal webhook gateways.
	TrustPermissive TrustMode = "permissive"
	// TrustStrict requires TLS 1.2+ and a verifiable certificate chain.
	TrustStrict TrustMode = "strict"
)

// ParseTrustMode converts a config value to a TrustMode. Empty means permissive.
func ParseTrustMode(s string) (TrustMode, error) {
	switch TrustMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", TrustPermissive:
		return TrustPermissive, nil
	case TrustStrict:
		return TrustStrict, nil
	default:
		return "", fmt.Errorf("unknown webhook trust mode %q", s)
	}
}

// tlsConfig returns the client TLS settings for the mode.
func (m TrustMode) tlsConfig() *tls.Config {
	if m == TrustStrict {
		return &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &tls.Config{
		MinVersion: tls.VersionTLS10,
		MaxVersion: tls.VersionTLS12,
		// Certificates and hostnames are not checked in this mode.
		InsecureSkipVerify: true, //nolint:gosec
	}
}

const defaultMaxIdleConns = 16

// newTransport builds the pooled transport shared by every dispatch of a Dispatcher.
// Plain http URLs go through the same transport without TLS.
func newTransport(mode TrustMode, maxIdleConns int) *http.Transport {
	if maxIdleConns <= 0 {
		maxIdleConns = defaultMaxIdleConns
	}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:     mode.tlsConfig(),
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConns,
		IdleConnTimeout:     90 * time.Second,
	}
}
