package patch

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/dotsync-labs/dotsync/internal/jsondoc"
	"github.com/dotsync-labs/dotsync/internal/schema"
)

// Directive keys recognised at the top level of a patch document. Any other
// key not starting with "$" is an implicit override.
const (
	KeyDefaults         = "$defaults"
	KeyOverrides        = "$overrides"
	KeyUnset            = "$unset"
	KeyUnsetIfCanonical = "$unsetIfCanonical"
)

//go:embed schema/updates.schema.json
var schemaBytes []byte

var (
	compiled    *schema.Schema
	compileOnce sync.Once
	compileErr  error
)

func getSchema() (*schema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = schema.Compile("updates.schema.json", schemaBytes)
	})
	return compiled, compileErr
}

// Document is a parsed patch document.
type Document struct {
	Defaults  *jsondoc.Object
	Overrides *jsondoc.Object
	Unset     []string

	// UnsetIfCanonical lists paths that only exist to bootstrap downstream
	// projects; Prepare moves them into Unset for the canonical skeleton.
	UnsetIfCanonical []string
}

// NewDocument returns an empty patch document.
func NewDocument() *Document {
	return &Document{
		Defaults:  jsondoc.NewObject(),
		Overrides: jsondoc.NewObject(),
	}
}

// Validate checks raw patch bytes against the embedded schema.
func Validate(data []byte) (*schema.Result, error) {
	s, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading patch schema: %w", err)
	}
	return s.ValidateJSON(data)
}

// Parse decodes and validates a patch document.
func Parse(data []byte) (*Document, error) {
	res, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, fmt.Errorf("invalid patch document: %s", res.Summary())
	}

	obj, err := jsondoc.Parse(data)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		switch key {
		case KeyDefaults:
			o, ok := v.(*jsondoc.Object)
			if !ok {
				return nil, fmt.Errorf("%s must be an object", key)
			}
			doc.Defaults = o
		case KeyOverrides:
			o, ok := v.(*jsondoc.Object)
			if !ok {
				return nil, fmt.Errorf("%s must be an object", key)
			}
			mergeOverrides(doc.Overrides, o)
		case KeyUnset:
			if doc.Unset, err = stringList(key, v); err != nil {
				return nil, err
			}
		case KeyUnsetIfCanonical:
			if doc.UnsetIfCanonical, err = stringList(key, v); err != nil {
				return nil, err
			}
		default:
			if strings.HasPrefix(key, "$") {
				return nil, fmt.Errorf("unknown directive %q", key)
			}
			single := jsondoc.NewObject()
			single.Set(key, v)
			mergeOverrides(doc.Overrides, single)
		}
	}
	return doc, nil
}

// Prepare returns a copy of d adjusted for the target project. When the
// project is the canonical skeleton, UnsetIfCanonical is appended to Unset.
func (d *Document) Prepare(canonical bool) *Document {
	out := &Document{
		Defaults:         d.Defaults.Clone(),
		Overrides:        d.Overrides.Clone(),
		Unset:            append([]string(nil), d.Unset...),
		UnsetIfCanonical: append([]string(nil), d.UnsetIfCanonical...),
	}
	if canonical {
		out.Unset = append(out.Unset, out.UnsetIfCanonical...)
	}
	return out
}

func stringList(key string, v any) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array", key)
	}
	out := make([]string, 0, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("%s[%d] must be a non-empty string", key, i)
		}
		out = append(out, s)
	}
	return out, nil
}
