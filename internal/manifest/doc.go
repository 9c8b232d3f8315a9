// Package manifest loads the sync manifest: the ordered table of path rules
// a skeleton applies to downstream projects, and the regeneration hooks that
// run afterwards. Manifests are YAML, validated against the JSON Schema
// embedded from schema/manifest.schema.json.
package manifest
