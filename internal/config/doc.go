// Package config manages user-level settings stored at ~/.dotsync/config.yaml.
// Settings supply defaults for command flags, such as the skeleton directory
// and manifest path, and can be overridden with DOTSYNC_* environment
// variables.
package config
