package endpoint

import (
	"crypto/tls"
	"errors"
	"net/http/httptest"
	"testing"
)

func testResolver() Resolver {
	return Resolver{
		LocalURL:          "http://localhost:8000/api",
		SameOriginMarkers: []string{"azurecontainerapps.io", "system3"},
	}
}

func TestResolveLoopbackIgnoresProtocol(t *testing.T) {
	r := testResolver()
	for _, host := range []string{"localhost", "127.0.0.1"} {
		for _, proto := range []string{"http:", "https:", "file:", ""} {
			if got := r.Resolve(host, proto); got != "http://localhost:8000/api" {
				t.Errorf("Resolve(%q, %q) = %q, want local url", host, proto, got)
			}
		}
	}
}

func TestResolveCloudMarker(t *testing.T) {
	r := testResolver()
	hosts := []string{
		"myapp.azurecontainerapps.io",
		"a.b.eastus.azurecontainerapps.io",
		"system3-frontend.example.com",
	}
	for _, host := range hosts {
		if got := r.Resolve(host, "https:"); got != "/api" {
			t.Errorf("Resolve(%q) = %q, want /api", host, got)
		}
	}
}

func TestResolveGenericFallback(t *testing.T) {
	r := testResolver()
	tests := []struct {
		host, proto, want string
	}{
		{"example.com", "https:", "https://example.com/api"},
		{"10.1.2.3", "http:", "http://10.1.2.3/api"},
		{"rag-system2.example.org", "https:", "https://rag-system2.example.org/api"},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.host, tt.proto); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.host, tt.proto, got, tt.want)
		}
	}
}

func TestResolveGlobMarker(t *testing.T) {
	r := Resolver{LocalURL: "x", SameOriginMarkers: []string{"*.corp.internal"}}
	if got := r.Resolve("rag.corp.internal", "http:"); got != "/api" {
		t.Errorf("glob marker should match, got %q", got)
	}
	if got := r.Resolve("corp.internal.evil.com", "http:"); got != "http://corp.internal.evil.com/api" {
		t.Errorf("glob marker should not match as substring, got %q", got)
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "http://Example.com:8080/", nil)
	p := FromRequest(req)
	if p.Hostname != "example.com" {
		t.Errorf("hostname = %q", p.Hostname)
	}
	if p.Protocol != "http:" {
		t.Errorf("protocol = %q", p.Protocol)
	}
	if p.Origin != "http://Example.com:8080" {
		t.Errorf("origin = %q", p.Origin)
	}

	req = httptest.NewRequest("GET", "http://app.example.com/", nil)
	req.Header.Set("X-Forwarded-Proto", "https, http")
	if p := FromRequest(req); p.Protocol != "https:" {
		t.Errorf("forwarded protocol = %q", p.Protocol)
	}

	req = httptest.NewRequest("GET", "https://secure.example.com/", nil)
	req.TLS = &tls.ConnectionState{}
	if p := FromRequest(req); p.Protocol != "https:" || p.Origin != "https://secure.example.com" {
		t.Errorf("tls page = %+v", p)
	}
}

func TestFromURL(t *testing.T) {
	p, err := FromURL("https://myapp.azurecontainerapps.io:443/index.html")
	if err != nil {
		t.Fatalf("FromURL: %v", err)
	}
	if p.Hostname != "myapp.azurecontainerapps.io" || p.Protocol != "https:" {
		t.Errorf("unexpected page %+v", p)
	}
	if got := testResolver().ResolvePage(p); got != "/api" {
		t.Errorf("ResolvePage = %q", got)
	}
}

func TestAbsolute(t *testing.T) {
	tests := []struct {
		base, origin, want string
	}{
		{"/api", "http://host:8080", "http://host:8080/api"},
		{"/api", "http://host:8080/", "http://host:8080/api"},
		{"http://localhost:8000/api", "http://other", "http://localhost:8000/api"},
		{"https://x.io/api", "http://other", "https://x.io/api"},
	}
	for _, tt := range tests {
		if got := Absolute(tt.base, tt.origin); got != tt.want {
			t.Errorf("Absolute(%q, %q) = %q, want %q", tt.base, tt.origin, got, tt.want)
		}
	}
}

func TestStatusBase(t *testing.T) {
	tests := map[string]string{
		"http://localhost:8000/api": "http://localhost:8000",
		"/api":                      "",
		"https://example.com/api/":  "https://example.com",
		"https://api.example.com":   "https://api.example.com",
	}
	for in, want := range tests {
		if got := StatusBase(in); got != want {
			t.Errorf("StatusBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnvironment(t *testing.T) {
	if got := Environment("x.azurecontainerapps.io"); got != "Azure Cloud" {
		t.Errorf("got %q", got)
	}
	if got := Environment("localhost"); got != "Local Development" {
		t.Errorf("got %q", got)
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		base, origin, upstream, want string
	}{
		{"/api", "https://app.azurecontainerapps.io", "", "https://app.azurecontainerapps.io/api"},
		{"/api", "https://app.azurecontainerapps.io", "http://backend:8000/", "http://backend:8000/api"},
		{"http://localhost:8000/api", "http://localhost:8080", "http://backend:8000", "http://localhost:8000/api"},
		{"https://example.com/api", "https://example.com", "", "https://example.com/api"},
	}
	for _, tt := range tests {
		if got := Target(tt.base, tt.origin, tt.upstream); got != tt.want {
			t.Errorf("Target(%q, %q, %q) = %q, want %q", tt.base, tt.origin, tt.upstream, got, tt.want)
		}
	}
}

func TestOutbound(t *testing.T) {
	r := testResolver()
	r.AllowedHosts = []string{"rag.example.com", "*.corp.internal"}

	tests := []struct {
		name     string
		page     string
		upstream string
		want     string
		wantErr  bool
	}{
		{"loopback", "http://localhost:8080", "", "http://localhost:8000/api", false},
		{"same origin via upstream", "https://evil-system3.attacker.net", "http://backend:8000", "http://backend:8000/api", false},
		{"same origin allowed host", "https://system3.corp.internal", "", "https://system3.corp.internal/api", false},
		{"allowed generic host", "https://rag.example.com", "", "https://rag.example.com/api", false},
		{"allowed glob host", "http://a.corp.internal:9000", "", "http://a.corp.internal/api", false},
		{"metadata address", "http://169.254.169.254", "", "", true},
		{"marker host without upstream", "https://evil-system3.attacker.net", "", "", true},
		{"glob does not match suffix", "http://corp.internal.evil.com", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := FromURL(tt.page)
			if err != nil {
				t.Fatalf("FromURL: %v", err)
			}
			got, err := r.Outbound(r.ResolvePage(page), page, tt.upstream)
			if tt.wantErr {
				var ue *UntrustedHostError
				if !errors.As(err, &ue) || ue.Host != page.Hostname {
					t.Fatalf("expected UntrustedHostError, got %q, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Outbound: %v", err)
			}
			if got != tt.want {
				t.Errorf("Outbound = %q, want %q", got, tt.want)
			}
		})
	}
}
