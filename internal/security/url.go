// Package security validates user-supplied locations before colormap fetches them.
package security

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// ValidateDownloadURL checks that rawURL is an http(s) URL with a host that
// is safe to download from. Link-local, multicast and unspecified addresses
// are rejected: the link-local range includes cloud metadata endpoints.
func ValidateDownloadURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("invalid URL %q: must start with http:// or https://", rawURL)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	addr, err := netip.ParseAddr(parsed.Hostname())
	if err != nil {
		// Not an IP literal.
		return nil
	}
	addr = addr.Unmap()
	switch {
	case addr.IsLinkLocalUnicast(), addr.IsLinkLocalMulticast(), addr.IsInterfaceLocalMulticast():
		return fmt.Errorf("URL cannot point to a link-local address: %s", addr)
	case addr.IsMulticast(), addr.IsUnspecified():
		return fmt.Errorf("URL cannot point to %s", addr)
	}
	return nil
}
