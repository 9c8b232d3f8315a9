package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dotsync-labs/dotsync/internal/jsondoc"
	"github.com/dotsync-labs/dotsync/internal/syncerr"
)

// MetadataFile is the project metadata document, relative to the project root.
const MetadataFile = "package.json"

// LocksPath is the key path of the lock list inside the metadata document.
var LocksPath = []string{"config", "c10n", "&", "dotfiles", "lock"}

// Metadata is what the sync engine needs to know about a project.
type Metadata struct {
	Repository string
	Locks      []string
}

// MetadataPath returns the full path to the metadata document of a project.
func MetadataPath(root string) string {
	return filepath.Join(root, MetadataFile)
}

// Load reads and parses the metadata document under root.
func Load(root string) (*Metadata, error) {
	path := MetadataPath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, syncerr.Newf(syncerr.KindMetadataUnreadable, MetadataFile, "missing %s", MetadataFile)
		}
		return nil, syncerr.New(syncerr.KindMetadataUnreadable, MetadataFile, err)
	}
	return Parse(data)
}

// Parse extracts Metadata from the raw metadata document.
func Parse(data []byte) (*Metadata, error) {
	obj, err := jsondoc.Parse(data)
	if err != nil {
		return nil, syncerr.New(syncerr.KindMetadataUnparsable, MetadataFile, err)
	}

	md := &Metadata{Repository: repository(obj)}

	raw, ok := obj.Lookup(LocksPath)
	if !ok || raw == nil {
		return md, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, syncerr.Newf(syncerr.KindMetadataUnparsable, MetadataFile,
			"%s must be an array of paths", jsondoc.JoinPath(LocksPath...))
	}
	for i, e := range list {
		s, ok := e.(string)
		if !ok || s == "" {
			return nil, syncerr.Newf(syncerr.KindMetadataUnparsable, MetadataFile,
				"%s[%d] must be a non-empty string", jsondoc.JoinPath(LocksPath...), i)
		}
		md.Locks = append(md.Locks, s)
	}
	return md, nil
}

// repository accepts both the string form and the {"url": ...} form.
func repository(obj *jsondoc.Object) string {
	v, ok := obj.Get("repository")
	if !ok {
		return ""
	}
	switch r := v.(type) {
	case string:
		return r
	case *jsondoc.Object:
		if url, ok := r.Get("url"); ok {
			if s, ok := url.(string); ok {
				return s
			}
		}
	}
	return ""
}

// IsRepo reports whether the project's repository is ownerRepo (an
// "owner/repo" string), matching SSH and HTTPS URLs with or without ".git".
func (m *Metadata) IsRepo(ownerRepo string) bool {
	if ownerRepo == "" || m.Repository == "" {
		return false
	}
	re := regexp.MustCompile(`(?i)[:/]` + regexp.QuoteMeta(ownerRepo) + `(?:\.git)?$`)
	return re.MatchString(m.Repository)
}
