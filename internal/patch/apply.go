package patch

import (
	"fmt"

	"github.com/dotsync-labs/dotsync/internal/jsondoc"
)

// Apply returns a patched copy of target; target itself is not modified.
// canonical reports whether the target belongs to the canonical skeleton.
func Apply(target *jsondoc.Object, doc *Document, canonical bool) *jsondoc.Object {
	d := doc.Prepare(canonical)
	out := target.Clone()

	fillDefaults(out, d.Defaults)
	mergeOverrides(out, d.Overrides)
	for _, p := range d.Unset {
		out.Remove(jsondoc.SplitPath(p))
	}
	return out
}

// File parses target as a JSON object, applies doc and formats the result
// with the target's own indentation.
func File(target []byte, doc *Document, canonical bool) ([]byte, error) {
	obj, err := jsondoc.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parsing target: %w", err)
	}
	return jsondoc.Format(Apply(obj, doc, canonical), jsondoc.DetectIndent(target))
}

// fillDefaults copies members of src into dst where dst has no member of
// that name. Existing members are never replaced, not even by an object.
func fillDefaults(dst, src *jsondoc.Object) {
	for _, k := range src.Keys() {
		sv, _ := src.Get(k)
		dv, ok := dst.Get(k)
		if !ok {
			dst.Set(k, jsondoc.CloneValue(sv))
			continue
		}
		sObj, sIsObj := sv.(*jsondoc.Object)
		dObj, dIsObj := dv.(*jsondoc.Object)
		if sIsObj && dIsObj {
			fillDefaults(dObj, sObj)
		}
	}
}

// mergeOverrides copies every member of src into dst, merging nested
// objects and replacing everything else.
func mergeOverrides(dst, src *jsondoc.Object) {
	for _, k := range src.Keys() {
		sv, _ := src.Get(k)
		if sObj, ok := sv.(*jsondoc.Object); ok {
			if dv, ok := dst.Get(k); ok {
				if dObj, ok := dv.(*jsondoc.Object); ok {
					mergeOverrides(dObj, sObj)
					continue
				}
			}
		}
		dst.Set(k, jsondoc.CloneValue(sv))
	}
}
