package smbsh

import (
	"context"
	"errors"
	"net"
	"time"
)

// NameResolver resolves a server name to candidate addresses. A lookup may
// legitimately return zero, one, or several results; deciding what to do
// with an ambiguous answer is the caller's job.
type NameResolver interface {
	QueryName(ctx context.Context, name string, timeout time.Duration) ([]string, error)
}

// DNSResolver resolves names through the system resolver (DNS and the
// hosts file). NetBIOS name service lookups are deliberately out of scope;
// servers not present in DNS are reached by supplying an address directly.
type DNSResolver struct {
	r *net.Resolver
}

// NewDNSResolver returns a NameResolver backed by the default system
// resolver.
func NewDNSResolver() *DNSResolver {
	return &DNSResolver{r: net.DefaultResolver}
}

// QueryName looks up name and returns every address it maps to, bounded by
// timeout. A name that does not resolve is reported as zero results, not an
// error, so callers can treat "unknown" and "ambiguous" uniformly.
func (d *DNSResolver) QueryName(ctx context.Context, name string, timeout time.Duration) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addrs, err := d.r.LookupHost(ctx, name)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, nil
		}
		return nil, err
	}
	return addrs, nil
}

// isIPLiteral reports whether s parses as an IPv4 or IPv6 address.
func isIPLiteral(s string) bool {
	return net.ParseIP(s) != nil
}
