package scrape

import (
	"crypto/tls"
	"net/http"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// chromeCipherSuites is the cipher order a desktop Chrome offers. The court
// site fingerprints the handshake, so the transport must offer these rather
// than Go's defaults.
var chromeCipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
}

// The court site fingerprints the TLS handshake and the header set, and serves
// a "Security Notice" block page (with HTTP 200) to anything that doesn't look
// like a desktop browser. Callers must detect that by body content, not status.
func NewRoundTripper() http.RoundTripper {
	_, rt := newBrowserTransport()
	return rt
}

func newBrowserTransport() (*http.Transport, http.RoundTripper) {
	base := &http.Transport{
		ForceAttemptHTTP2: true,
	}

	wrapped := cloudflarebp.AddCloudFlareByPass(base, cloudflarebp.Options{
		AddMissingHeaders: true,
		Headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
	})

	// AddCloudFlareByPass replaces the transport's TLSClientConfig with one
	// that only sets curve preferences. Layer the cipher profile onto that
	// config after the fact so both survive on the wire.
	base.TLSClientConfig.MinVersion = tls.VersionTLS12
	base.TLSClientConfig.CipherSuites = chromeCipherSuites

	return base, wrapped
}
