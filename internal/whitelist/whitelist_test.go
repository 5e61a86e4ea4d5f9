package whitelist

import (
	"context"
	"testing"
)

func TestStatus(t *testing.T) {
	checker := NewChecker(nil)

	tests := []struct {
		name string
		url  string
		want Status
	}{
		{"exact match", "https://ssa.gov/benefits", StatusVerified},
		{"subdomain of full domain", "https://www.wvumedicine.org/services", StatusVerified},
		{"bare tld gov", "https://anything.gov", StatusVerified},
		{"bare tld edu", "https://community.college.edu/apply", StatusVerified},
		{"nested state domain", "https://dhhr.wv.gov/pages", StatusVerified},
		{"unlisted domain", "https://example.com", StatusWarning},
		{"lookalike suffix is not a match", "https://notssa.gov.evil.com", StatusWarning},
		{"http scheme allowed", "http://wikipedia.org/wiki/Recovery", StatusVerified},
		{"javascript scheme", "javascript:alert(1)", StatusBlocked},
		{"ftp scheme", "ftp://ssa.gov/file", StatusBlocked},
		{"no host", "https://", StatusBlocked},
		{"not a url", "::::", StatusBlocked},
		{"uppercase host", "https://WIKIPEDIA.ORG", StatusVerified},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := checker.Status(context.Background(), tc.url)
			if got != tc.want {
				t.Errorf("Status(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.ssa.gov/benefits", "www.ssa.gov"},
		{"https://Example.COM", "example.com"},
		{"::::", ""},
	}

	for _, tc := range tests {
		if got := Domain(tc.url); got != tc.want {
			t.Errorf("Domain(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Example.org", "example.org"},
		{"https://example.org/", "example.org"},
		{"www.example.org", "example.org"},
		{"  example.org  ", "example.org"},
	}

	for _, tc := range tests {
		if got := normalizeDomain(tc.in); got != tc.want {
			t.Errorf("normalizeDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
