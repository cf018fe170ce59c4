package parse

import (
	"errors"
	"net/url"
	"testing"

	"github.com/Sriram-PR/storylens/pkg/utils"
)

func TestParseArticleURL_Valid(t *testing.T) {
	tests := []string{
		"https://example.com/news/1",
		"http://example.com",
		"HTTPS://Example.com/Path?q=1",
		"  https://example.com/padded  ",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			u, err := ParseArticleURL(input)
			if err != nil {
				t.Fatalf("ParseArticleURL(%q) returned error: %v", input, err)
			}
			if u.Host == "" {
				t.Errorf("ParseArticleURL(%q) returned empty host", input)
			}
		})
	}
}

func TestParseArticleURL_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Whitespace", "   "},
		{"Relative", "/news/1"},
		{"NoScheme", "example.com/news"},
		{"FTP", "ftp://example.com/file"},
		{"File", "file:///etc/passwd"},
		{"Mailto", "mailto:someone@example.com"},
		{"NoHost", "https:///path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArticleURL(tt.input)
			if err == nil {
				t.Fatalf("ParseArticleURL(%q) expected error, got nil", tt.input)
			}
			if !errors.Is(err, utils.ErrInvalidInput) {
				t.Errorf("ParseArticleURL(%q) error = %v, want ErrInvalidInput", tt.input, err)
			}
		})
	}
}

func TestResolveHTTPURL(t *testing.T) {
	base, _ := url.Parse("https://x.com/news/1")

	tests := []struct {
		name     string
		ref      string
		expected string
		ok       bool
	}{
		{"RootRelative", "/img/a.jpg", "https://x.com/img/a.jpg", true},
		{"PathRelative", "b.png", "https://x.com/news/b.png", true},
		{"ProtocolRelative", "//cdn.x.com/c.png", "https://cdn.x.com/c.png", true},
		{"Absolute", "http://other.com/d.gif", "http://other.com/d.gif", true},
		{"FileScheme", "file:///tmp/a.jpg", "", false},
		{"DataURI", "data:image/png;base64,AAAA", "", false},
		{"Javascript", "javascript:void(0)", "", false},
		{"Empty", "", "", false},
		{"Malformed", "http://[::1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveHTTPURL(base, tt.ref)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ResolveHTTPURL(%q) = (%q, %v), want (%q, %v)", tt.ref, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestResolveHTTPURL_NilBase(t *testing.T) {
	if _, ok := ResolveHTTPURL(nil, "/relative.jpg"); ok {
		t.Error("relative ref with nil base should not resolve")
	}
	if got, ok := ResolveHTTPURL(nil, "https://x.com/a.jpg"); !ok || got != "https://x.com/a.jpg" {
		t.Errorf("absolute ref with nil base = (%q, %v)", got, ok)
	}
}

func TestHostname(t *testing.T) {
	tests := map[string]string{
		"https://www.Example.com/a":      "example.com",
		"https://news.example.com:8443/": "news.example.com",
		"http://example.org":             "example.org",
	}
	for input, expected := range tests {
		u, _ := url.Parse(input)
		if got := Hostname(u); got != expected {
			t.Errorf("Hostname(%q) = %q, want %q", input, got, expected)
		}
	}
	if got := Hostname(nil); got != "" {
		t.Errorf("Hostname(nil) = %q, want empty", got)
	}
}
