package httpx

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ipResolver determines the address of the client behind a request.
// Forwarding headers are honoured only when the direct peer is a trusted proxy.
type ipResolver struct {
	trusted []netip.Prefix
}

func (res ipResolver) isTrusted(addr netip.Addr) bool {
	for _, p := range res.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP returns the peer address, or the nearest untrusted hop recorded by
// trusted proxies in X-Forwarded-For (X-Real-IP as fallback).
func (res ipResolver) clientIP(req *http.Request) string {
	peer, ok := parseHost(req.RemoteAddr)
	if !ok {
		return strings.TrimSpace(req.RemoteAddr)
	}
	if !res.isTrusted(peer) {
		return peer.String()
	}

	if forwarded := req.Header.Values("X-Forwarded-For"); len(forwarded) > 0 {
		hops := strings.Split(strings.Join(forwarded, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			hop = hop.Unmap()
			if !res.isTrusted(hop) {
				return hop.String()
			}
		}
	}
	if realIP, err := netip.ParseAddr(strings.TrimSpace(req.Header.Get("X-Real-IP"))); err == nil {
		return realIP.Unmap().String()
	}
	return peer.String()
}

func parseHost(remote string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(strings.TrimSpace(remote))
	if err != nil {
		host = strings.TrimSpace(remote)
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
