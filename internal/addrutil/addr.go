package addrutil

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
)

// GatewayFor guesses the default gateway of a client: the first host of its /24.
func GatewayFor(clientIP string) (string, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(clientIP))
	if err != nil {
		return "", fmt.Errorf("parse client ip %q: %w", clientIP, err)
	}
	if !addr.Unmap().Is4() {
		return "", fmt.Errorf("client ip %q is not IPv4", clientIP)
	}
	prefix, err := addr.Unmap().Prefix(24)
	if err != nil {
		return "", err
	}
	return prefix.Addr().Next().String(), nil
}

// DialAddr returns addr as "host:port", applying defaultPort when addr has none.
func DialAddr(addr string, defaultPort int) (string, bool) {
	a := strings.TrimSpace(addr)
	if a == "" {
		return "", false
	}
	if _, _, err := net.SplitHostPort(a); err == nil {
		return a, true
	}

	host, port := splitLoose(a)
	if host == "" {
		return "", false
	}
	if port == "" {
		if defaultPort <= 0 {
			return "", false
		}
		port = strconv.Itoa(defaultPort)
	}
	return net.JoinHostPort(host, port), true
}

// HostOf strips an optional port from addr.
func HostOf(addr string) string {
	host, _ := splitLoose(strings.TrimSpace(addr))
	return host
}

func splitLoose(a string) (host, port string) {
	if a == "" {
		return "", ""
	}

	// Fast path: "host:port" (IPv4 or bracketed IPv6).
	if h, p, err := net.SplitHostPort(a); err == nil {
		return h, p
	}

	// A bare IPv6 address has no port.
	if _, err := netip.ParseAddr(strings.Trim(a, "[]")); err == nil {
		return strings.Trim(a, "[]"), ""
	}

	// Handle unbracketed IPv6 "host:port" by peeling off the last ":port".
	if strings.Count(a, ":") > 1 && !strings.HasPrefix(a, "[") {
		if last := strings.LastIndexByte(a, ':'); last > 0 && last < len(a)-1 {
			if _, err := strconv.Atoi(a[last+1:]); err == nil {
				return a[:last], a[last+1:]
			}
		}
	}

	if strings.Contains(a, ":") {
		return strings.Trim(a, "[]"), ""
	}
	return a, ""
}
