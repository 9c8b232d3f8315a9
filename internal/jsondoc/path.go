package jsondoc

import "strings"

// SplitPath splits a dotted path into segments. A backslash escapes the
// next character, so `a\.b` names the single key "a.b".
func SplitPath(p string) []string {
	var (
		segs    []string
		cur     strings.Builder
		escaped bool
	)
	for _, r := range p {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			segs = append(segs, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune('\\')
	}
	return append(segs, cur.String())
}

// JoinPath is the inverse of SplitPath.
func JoinPath(segs ...string) string {
	escaped := make([]string, len(segs))
	for i, s := range segs {
		s = strings.ReplaceAll(s, `\`, `\\`)
		escaped[i] = strings.ReplaceAll(s, ".", `\.`)
	}
	return strings.Join(escaped, ".")
}
