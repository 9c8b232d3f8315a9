// Package marker preserves a hand-written region inside files that are
// otherwise regenerated from the skeleton.
//
// A document carries at most one custom region, bounded by a start and an
// end delimiter. The delimiters themselves belong to the surrounding text,
// so they are always taken from the newer document. Nested or repeated
// regions are not supported: a document in which either delimiter occurs
// more than once is treated as having no region at all.
package marker

import "strings"

const (
	// DefaultStart opens the custom region.
	DefaultStart = "<custom:start>"
	// DefaultEnd closes the custom region.
	DefaultEnd = "</custom:end>"
)

// Delimiters is a start/end pair bounding a custom region.
type Delimiters struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// Default returns the delimiters used when none are configured.
func Default() Delimiters {
	return Delimiters{Start: DefaultStart, End: DefaultEnd}
}

// Region is the three-way split of a document around its custom region.
// Prefix ends with the start delimiter and Suffix begins with the end
// delimiter, so Prefix+Custom+Suffix reproduces the document.
type Region struct {
	Prefix string
	Custom string
	Suffix string
}

// Find splits text around its custom region. It reports false unless both
// delimiters occur exactly once with start before end.
func (d Delimiters) Find(text string) (Region, bool) {
	if d.Start == "" || d.End == "" {
		return Region{}, false
	}
	if strings.Count(text, d.Start) != 1 || strings.Count(text, d.End) != 1 {
		return Region{}, false
	}
	start := strings.Index(text, d.Start) + len(d.Start)
	end := strings.Index(text, d.End)
	if end < start {
		return Region{}, false
	}
	return Region{
		Prefix: text[:start],
		Custom: text[start:end],
		Suffix: text[end:],
	}, true
}

// Merge returns newText with the custom region of oldText carried over.
// A nil oldText means the file does not exist yet. When either side lacks a
// well-formed region the skeleton text wins unchanged.
func (d Delimiters) Merge(oldText *string, newText string) string {
	if oldText == nil {
		return newText
	}
	old, ok := d.Find(*oldText)
	if !ok {
		return newText
	}
	fresh, ok := d.Find(newText)
	if !ok {
		return newText
	}
	return fresh.Prefix + old.Custom + fresh.Suffix
}

// Merge is Delimiters.Merge with the default delimiters.
func Merge(oldText *string, newText string) string {
	return Default().Merge(oldText, newText)
}
