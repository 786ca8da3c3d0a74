package policy

import (
	"net/netip"
	"net/url"
	"strings"
)

// IsSafeURL reports whether raw may be fetched. Hostnames are checked
// literally and never resolved, so a public name that resolves to a
// private address is still allowed.
func IsSafeURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return false
	}

	lower := strings.ToLower(hostname)
	if lower == "localhost" || lower == "localhost." {
		return false
	}
	if strings.HasPrefix(lower, "127.") || strings.HasPrefix(lower, "169.254.") {
		return false
	}

	addr, err := netip.ParseAddr(hostname)
	if err != nil {
		return true
	}

	return !isInternalAddr(addr.Unmap())
}

// reservedPrefixes lists special-purpose ranges that are never fetched,
// on top of what netip classifies as private, loopback or link-local.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("255.255.255.255/32"),
	netip.MustParsePrefix("64:ff9b:1::/48"),
	netip.MustParsePrefix("100::/64"),
	netip.MustParsePrefix("2001::/23"),
	netip.MustParsePrefix("2001:db8::/32"),
}

func isInternalAddr(addr netip.Addr) bool {
	if addr.IsPrivate() ||
		addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified() {
		return true
	}

	for _, prefix := range reservedPrefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
