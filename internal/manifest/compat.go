package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/dotsync-labs/dotsync/internal/syncerr"
)

// CheckVersion verifies that version satisfies the manifest's requires
// constraint. Development builds ("dev" or empty) are always accepted.
func (m *Manifest) CheckVersion(version string) error {
	if m.Requires == "" || version == "" || version == "dev" {
		return nil
	}

	c, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return syncerr.New(syncerr.KindManifestInvalid, m.Source,
			fmt.Errorf("parsing requires constraint %q: %w", m.Requires, err))
	}
	v, err := parseSemver(version)
	if err != nil {
		return syncerr.New(syncerr.KindIncompatibleVersion, m.Source,
			fmt.Errorf("parsing dotsync version %q: %w", version, err))
	}
	if !c.Check(v) {
		return syncerr.Newf(syncerr.KindIncompatibleVersion, m.Source,
			"manifest requires dotsync %s, running %s", m.Requires, version)
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
