// Package endpoint decides which REST API base URL a page should talk to,
// based on the hostname it was served from.
package endpoint

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SameOriginBase is returned when the API shares the page's origin.
const SameOriginBase = "/api"

// cloudMarker identifies the managed container hosting domain.
const cloudMarker = "azurecontainerapps.io"

// Resolver maps a page location to an API base URL.
type Resolver struct {
	// LocalURL is returned for loopback hosts.
	LocalURL string
	// SameOriginMarkers are hostname substrings, or doublestar globs when
	// they contain a glob metacharacter, that select SameOriginBase.
	SameOriginMarkers []string
	// AllowedHosts are page hostnames, exact or doublestar globs, whose
	// host-derived API base a server may call directly.
	AllowedHosts []string
}

// Resolve returns the API base for the given hostname and protocol. The
// protocol carries its trailing colon, as in "https:". Rules are checked in
// order and the first match wins.
func (r Resolver) Resolve(hostname, protocol string) string {
	log.Printf("endpoint: detecting environment for host %q", hostname)

	if hostname == "localhost" || hostname == "127.0.0.1" {
		log.Printf("endpoint: local environment, using %s", r.LocalURL)
		return r.LocalURL
	}

	for _, marker := range r.SameOriginMarkers {
		if matchMarker(marker, hostname) {
			log.Printf("endpoint: same-origin environment (%s), using %s", marker, SameOriginBase)
			return SameOriginBase
		}
	}

	base := protocol + "//" + hostname + "/api"
	log.Printf("endpoint: generic environment, using %s", base)
	return base
}

// UntrustedHostError reports a page host whose derived API base a server
// refuses to call.
type UntrustedHostError struct {
	Host string
}

func (e *UntrustedHostError) Error() string {
	return fmt.Sprintf("no backend configured for host %q (set api.base_url, api.upstream or api.allowed_hosts)", e.Host)
}

// Outbound returns the absolute API base a server-side caller may contact
// for base, which was resolved from page. The configured local URL and
// upstream are always reachable. Anything derived from the page's own host
// is reachable only when that host is allowed.
func (r Resolver) Outbound(base string, page Page, upstream string) (string, error) {
	switch {
	case base == r.LocalURL:
		return base, nil
	case base == SameOriginBase && upstream != "":
		return Target(base, page.Origin, upstream), nil
	case r.allowed(page.Hostname):
		return Target(base, page.Origin, upstream), nil
	}
	log.Printf("endpoint: refusing backend for untrusted host %q", page.Hostname)
	return "", &UntrustedHostError{Host: page.Hostname}
}

func (r Resolver) allowed(hostname string) bool {
	if hostname == "" {
		return false
	}
	for _, pattern := range r.AllowedHosts {
		if pattern == hostname {
			return true
		}
		if strings.ContainsAny(pattern, "*?[{") {
			if ok, err := doublestar.Match(pattern, hostname); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func matchMarker(marker, hostname string) bool {
	if marker == "" {
		return false
	}
	if strings.ContainsAny(marker, "*?[{") {
		ok, err := doublestar.Match(marker, hostname)
		return err == nil && ok
	}
	return strings.Contains(hostname, marker)
}

// Page describes where a page was loaded from.
type Page struct {
	Hostname string // without port
	Protocol string // "http:" or "https:"
	Origin   string // scheme://host[:port]
}

// FromRequest derives the page location from an incoming request, honouring
// X-Forwarded-Proto from a terminating proxy.
func FromRequest(r *http.Request) Page {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(fwd, ",")[0]))
	}

	host := r.Host
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	return Page{
		Hostname: strings.ToLower(hostname),
		Protocol: scheme + ":",
		Origin:   scheme + "://" + host,
	}
}

// FromURL derives the page location from an absolute URL string.
func FromURL(raw string) (Page, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Hostname: strings.ToLower(u.Hostname()),
		Protocol: u.Scheme + ":",
		Origin:   u.Scheme + "://" + u.Host,
	}, nil
}

// ResolvePage is Resolve applied to a Page.
func (r Resolver) ResolvePage(p Page) string {
	return r.Resolve(p.Hostname, p.Protocol)
}

// Absolute turns a relative base such as "/api" into an absolute URL on the
// given origin. Absolute bases are returned unchanged.
func Absolute(base, origin string) string {
	if IsAbsolute(base) {
		return base
	}
	return strings.TrimSuffix(origin, "/") + "/" + strings.TrimPrefix(base, "/")
}

// IsAbsolute reports whether base is an http(s) URL rather than a path.
func IsAbsolute(base string) bool {
	return strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
}

// Target returns the absolute API base a server-side caller should use. A
// same-origin base goes straight to upstream when one is configured, instead
// of looping back through the page's own proxy.
func Target(base, origin, upstream string) string {
	if base == SameOriginBase && upstream != "" {
		return strings.TrimSuffix(upstream, "/") + SameOriginBase
	}
	return Absolute(base, origin)
}

// StatusBase strips a trailing /api from base. Health and status endpoints
// live beside the API, not under it.
func StatusBase(base string) string {
	return strings.TrimSuffix(strings.TrimSuffix(base, "/"), "/api")
}

// Environment returns the human-readable deployment environment label.
func Environment(hostname string) string {
	if strings.Contains(hostname, cloudMarker) {
		return "Azure Cloud"
	}
	return "Local Development"
}
