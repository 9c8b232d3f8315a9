package cli

import (
	"fmt"

	"github.com/dotsync-labs/dotsync/internal/branding"
	"github.com/dotsync-labs/dotsync/internal/config"
	"github.com/dotsync-labs/dotsync/internal/manifest"
)

// resolveSkeleton returns the skeleton directory from the flag or config.
func resolveSkeleton(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if dir := config.Get(config.KeySkeleton); dir != "" {
		return dir, nil
	}
	return "", fmt.Errorf("no skeleton directory: pass --skeleton or run '%s config set %s DIR'",
		branding.CLIName(), config.KeySkeleton)
}

// loadManifest resolves the manifest: the flag, then config, then the
// skeleton's dotsync.yaml, then the built-in default.
func loadManifest(flag, skeleton string) (*manifest.Manifest, error) {
	explicit := flag
	if explicit == "" {
		explicit = config.Get(config.KeyManifest)
	}
	return manifest.Resolve(explicit, skeleton)
}
