package httpx

import (
	"net/http/httptest"
	"net/netip"
	"testing"
)

func TestClientIP(t *testing.T) {
	proxies := ipResolver{trusted: []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}}
	cases := []struct {
		name     string
		resolver ipResolver
		remote   string
		xff      string
		realIP   string
		want     string
	}{
		{name: "no proxies ignores headers", remote: "198.51.100.4:5000", xff: "203.0.113.9", realIP: "203.0.113.10", want: "198.51.100.4"},
		{name: "untrusted peer ignores headers", resolver: proxies, remote: "198.51.100.4:5000", xff: "203.0.113.9", want: "198.51.100.4"},
		{name: "trusted peer uses forwarded hop", resolver: proxies, remote: "10.0.0.2:5000", xff: "203.0.113.9", want: "203.0.113.9"},
		{name: "spoofed leftmost entry skipped", resolver: proxies, remote: "10.0.0.2:5000", xff: "1.2.3.4, 203.0.113.9, 10.0.0.7", want: "203.0.113.9"},
		{name: "garbage hop stops the walk", resolver: proxies, remote: "10.0.0.2:5000", xff: "203.0.113.9, junk", want: "10.0.0.2"},
		{name: "trusted peer falls back to real ip", resolver: proxies, remote: "10.0.0.2:5000", realIP: "203.0.113.11", want: "203.0.113.11"},
		{name: "mapped v4 peer", remote: "[::ffff:198.51.100.4]:5000", want: "198.51.100.4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := tc.resolver.clientIP(req); got != tc.want {
				t.Fatalf("clientIP = %q, want %q", got, tc.want)
			}
		})
	}
}
