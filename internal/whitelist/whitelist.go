// Package whitelist classifies outbound link destinations before the
// kiosk opens them. Verified domains come from a static allowlist plus
// admin-managed additions kept in redis.
package whitelist

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

type Status string

const (
	StatusVerified Status = "verified"
	StatusWarning  Status = "warning"
	StatusBlocked  Status = "blocked"
)

const customDomainsKey = "whitelist:custom_domains"

// DefaultDomains is the built-in allowlist. Entries without a dot are
// treated as top-level domains (any *.gov host is verified).
var DefaultDomains = []string{
	// Government sites
	"gov",
	"wv.gov",
	"ssa.gov",
	"hhs.gov",
	"dol.gov",
	"va.gov",
	"fda.gov",
	"cdc.gov",
	"nih.gov",
	"medicare.gov",
	"medicaid.gov",

	// Educational institutions
	"edu",
	"wvu.edu",
	"marshall.edu",

	// Trusted non-profits and organizations
	"unitedway.org",
	"redcross.org",
	"goodwill.org",
	"salvationarmy.org",
	"catholiccharitiesusa.org",
	"211.org",
	"benefits.gov",
	"healthfinder.gov",

	// Major healthcare providers
	"camc.org",
	"wvumedicine.org",
	"monhealth.org",

	// Trusted service providers
	"servicesnow.com",
	"workforcewv.org",
	"dhhr.wv.gov",

	// Common trusted domains
	"wikipedia.org",
	"wikimedia.org",
}

// Checker classifies URLs. A nil redis client disables the custom layer
// and classifies against the static list only.
type Checker struct {
	redis *redis.Client
}

func NewChecker(redisClient *redis.Client) *Checker {
	return &Checker{redis: redisClient}
}

// Status classifies a URL: verified for allowlisted domains, blocked for
// URLs the kiosk must never open (unparseable, non-http schemes),
// warning for everything else.
func (c *Checker) Status(ctx context.Context, rawURL string) Status {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return StatusBlocked
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return StatusBlocked
	}

	domain := strings.ToLower(u.Hostname())
	for _, entry := range DefaultDomains {
		if matches(domain, entry) {
			return StatusVerified
		}
	}

	if c.redis != nil {
		custom, err := c.redis.SMembers(ctx, customDomainsKey).Result()
		if err == nil {
			for _, entry := range custom {
				if matches(domain, entry) {
					return StatusVerified
				}
			}
		}
	}

	return StatusWarning
}

// Domain extracts the lowercased hostname, or "" when unparseable.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func matches(domain, entry string) bool {
	entry = strings.ToLower(strings.TrimPrefix(entry, "."))
	if entry == "" {
		return false
	}
	return domain == entry || strings.HasSuffix(domain, "."+entry)
}

// CustomDomains lists the admin-managed additions, sorted.
func (c *Checker) CustomDomains(ctx context.Context) ([]string, error) {
	if c.redis == nil {
		return nil, nil
	}
	domains, err := c.redis.SMembers(ctx, customDomainsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list custom domains: %w", err)
	}
	sort.Strings(domains)
	return domains, nil
}

// AddCustomDomain registers a domain in the custom layer. Returns true
// when the domain was not already present.
func (c *Checker) AddCustomDomain(ctx context.Context, domain string) (bool, error) {
	domain = normalizeDomain(domain)
	if domain == "" || !strings.Contains(domain, ".") {
		return false, fmt.Errorf("invalid domain %q", domain)
	}
	added, err := c.redis.SAdd(ctx, customDomainsKey, domain).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add custom domain: %w", err)
	}
	return added > 0, nil
}

func (c *Checker) RemoveCustomDomain(ctx context.Context, domain string) error {
	if err := c.redis.SRem(ctx, customDomainsKey, normalizeDomain(domain)).Err(); err != nil {
		return fmt.Errorf("failed to remove custom domain: %w", err)
	}
	return nil
}

// ResetCustomDomains drops every custom addition, reverting to the
// static defaults.
func (c *Checker) ResetCustomDomains(ctx context.Context) error {
	if err := c.redis.Del(ctx, customDomainsKey).Err(); err != nil {
		return fmt.Errorf("failed to reset custom domains: %w", err)
	}
	return nil
}

func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	return strings.TrimSuffix(domain, "/")
}
