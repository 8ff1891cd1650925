package cli

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"mico/internal/api"
)

// ValidateVersion checks that v is a strict semantic version (1.2.3).
func ValidateVersion(v string) error {
	if _, err := semver.StrictNewVersion(v); err != nil {
		return fmt.Errorf("invalid version %q: %w", v, err)
	}
	return nil
}

// SortServiceVersions orders services newest first. Versions that do not
// parse as semver sort after all valid ones, in reverse lexical order.
func SortServiceVersions(services []api.Service) {
	sort.SliceStable(services, func(i, j int) bool {
		return versionGreater(services[i].Version, services[j].Version)
	})
}

func versionGreater(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.GreaterThan(vb)
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a > b
	}
}
