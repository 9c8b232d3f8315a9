package manifest

import (
	"path"

	"github.com/dotsync-labs/dotsync/internal/marker"
)

// Mode selects how a rule's path is synchronized.
type Mode string

const (
	// ModeImmutable replaces the project's copy wholesale on every run.
	ModeImmutable Mode = "immutable"
	// ModeMerge regenerates the file but keeps its custom marker region.
	ModeMerge Mode = "merge"
	// ModeAddOnly copies the file only when the project lacks it.
	ModeAddOnly Mode = "add-only"
	// ModeJSONPatch seeds the file if needed, then applies a patch document.
	ModeJSONPatch Mode = "json-patch"
	// ModeRemove deletes a path the skeleton no longer ships.
	ModeRemove Mode = "remove"
)

// AllModes returns every mode in documentation order.
func AllModes() []Mode {
	return []Mode{ModeImmutable, ModeMerge, ModeAddOnly, ModeJSONPatch, ModeRemove}
}

// Lockable reports whether locks apply to rules of this mode. Immutable
// trees are managed wholesale and ignore locks.
func (m Mode) Lockable() bool { return m != ModeImmutable }

// Rule is one entry of the path rule table.
type Rule struct {
	Path        string             `yaml:"path" json:"path"`
	Mode        Mode               `yaml:"mode" json:"mode"`
	Executables []string           `yaml:"executables,omitempty" json:"executables,omitempty"`
	Markers     *marker.Delimiters `yaml:"markers,omitempty" json:"markers,omitempty"`
}

// HookSpec declares one regeneration hook.
type HookSpec struct {
	Name     string   `yaml:"name" json:"name"`
	Kind     string   `yaml:"kind" json:"kind"`
	Target   string   `yaml:"target,omitempty" json:"target,omitempty"`
	Source   string   `yaml:"source,omitempty" json:"source,omitempty"`
	Groups   []string `yaml:"groups,omitempty" json:"groups,omitempty"`
	Header   string   `yaml:"header,omitempty" json:"header,omitempty"`
	Command  []string `yaml:"command,omitempty" json:"command,omitempty"`
	Optional bool     `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Manifest is a parsed sync manifest.
type Manifest struct {
	// Requires is a semver constraint on the dotsync version.
	Requires string `yaml:"requires,omitempty" json:"requires,omitempty"`

	// Canonical is the "owner/repo" of the skeleton's own repository.
	Canonical string `yaml:"canonical,omitempty" json:"canonical,omitempty"`

	// PatchesDir is the skeleton-relative directory holding patch documents.
	PatchesDir string `yaml:"patches_dir,omitempty" json:"patches_dir,omitempty"`

	Markers marker.Delimiters `yaml:"markers,omitempty" json:"markers,omitempty"`
	Rules   []Rule            `yaml:"rules" json:"rules"`
	Hooks   []HookSpec        `yaml:"hooks,omitempty" json:"hooks,omitempty"`

	// Source describes where the manifest was loaded from.
	Source string `yaml:"-" json:"-"`
}

// DefaultPatchesDir is used when a manifest does not set patches_dir.
const DefaultPatchesDir = "dev/.files/bin/updater/data"

// PatchFile is the file name of every patch document.
const PatchFile = "updates.json"

// DelimitersFor returns the marker delimiters that apply to rule.
func (m *Manifest) DelimitersFor(rule Rule) marker.Delimiters {
	if rule.Markers != nil {
		return *rule.Markers
	}
	return m.Markers
}

// PatchPath returns the skeleton-relative location of the patch document
// for relPath: the base name gains a leading underscore and becomes a
// directory holding updates.json.
func (m *Manifest) PatchPath(relPath string) string {
	dir, base := path.Split(path.Clean(relPath))
	return path.Join(m.PatchesDir, dir, "_"+base, PatchFile)
}
