// Package common provides shared utilities for Navcalc
package common

import "time"

// Freshness TTLs for cached data components
const (
	FreshnessScheme     = 12 * time.Hour     // Scheme NAV history (provider publishes once per business day)
	FreshnessSchemeList = 12 * time.Hour     // Full scheme directory list
	FreshnessActivity   = 5 * 24 * time.Hour // A fund counts as active if its latest NAV is within this window
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
