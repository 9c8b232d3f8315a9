// Package cli defines the Cobra command tree for the dotsync CLI. Each file
// in this package registers one top-level command (sync, locks, patch, etc.)
// with the root command. Command implementations delegate to internal packages
// for business logic and only handle flag parsing and output formatting.
package cli
