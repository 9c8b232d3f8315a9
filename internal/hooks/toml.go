package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"github.com/dotsync-labs/dotsync/internal/manifest"
)

const defaultTOMLHeader = `##
# Auto-generated from %s.
#
# Do not edit this file; it is rewritten on every sync.
##`

type tomlFile struct {
	spec manifest.HookSpec
	env  Env
}

func (h *tomlFile) Name() string { return h.spec.Name }

// Regenerate renders the settings document as TOML. The source may be YAML
// or JSON; JSON is read as YAML.
func (h *tomlFile) Regenerate(_ context.Context, _ string) error {
	if err := h.env.checkTarget(h.spec.Target); err != nil {
		return err
	}
	data, err := readSource(h.env, h.spec)
	if err != nil {
		return err
	}

	settings := map[string]any{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parsing %s: %w", h.spec.Source, err)
	}
	body, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", h.spec.Target, err)
	}

	header := h.spec.Header
	if header == "" {
		header = fmt.Sprintf(defaultTOMLHeader, h.spec.Source)
	}
	content := strings.TrimRight(header, "\n") + "\n\n" + string(body)
	return writeIfChanged(h.env, h.spec.Target, []byte(content))
}
