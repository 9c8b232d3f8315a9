package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/dotsync-labs/dotsync/internal/fsutil"
	"github.com/dotsync-labs/dotsync/internal/manifest"
	"github.com/dotsync-labs/dotsync/internal/marker"
	"github.com/dotsync-labs/dotsync/internal/syncerr"
)

// Kinds understood by Build.
const (
	KindIgnoreFile = "ignorefile"
	KindTOML       = "toml"
	KindExec       = "exec"
)

// ErrSkipped is returned by an optional hook whose source is absent.
var ErrSkipped = errors.New("hook skipped: source not present")

// ErrLocked is returned by a hook whose target the project has locked.
var ErrLocked = errors.New("hook skipped: target locked")

// Hook recomputes one derived artifact from the current project tree.
type Hook interface {
	Name() string
	Regenerate(ctx context.Context, projectRoot string) error
}

// Env is what built-in hooks share with the engine.
type Env struct {
	// Fs is the project filesystem, rooted at the project directory.
	Fs afero.Fs

	// Markers bound the custom region of generated ignore files.
	Markers marker.Delimiters

	// IsLocked reports whether the project has locked a relative path.
	// Hooks never write a locked target. Nil means nothing is locked.
	IsLocked func(rel string) bool

	Logger *slog.Logger
}

// checkTarget returns ErrLocked when the hook's target is locked.
func (e Env) checkTarget(target string) error {
	if target != "" && e.IsLocked != nil && e.IsLocked(target) {
		return ErrLocked
	}
	return nil
}

func (e Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Build turns manifest hook entries into hooks, preserving their order.
func Build(specs []manifest.HookSpec, env Env) ([]Hook, error) {
	out := make([]Hook, 0, len(specs))
	for _, spec := range specs {
		var h Hook
		switch spec.Kind {
		case KindIgnoreFile:
			h = &ignoreFile{spec: spec, env: env}
		case KindTOML:
			h = &tomlFile{spec: spec, env: env}
		case KindExec:
			if len(spec.Command) == 0 {
				return nil, syncerr.Newf(syncerr.KindManifestInvalid, "",
					"hook %q: exec hooks need a command", spec.Name)
			}
			h = &command{spec: spec, env: env}
		default:
			return nil, syncerr.Newf(syncerr.KindManifestInvalid, "",
				"hook %q: unknown kind %q", spec.Name, spec.Kind)
		}
		out = append(out, h)
	}
	return out, nil
}

// readSource loads a hook's source document from the project. A missing
// source is ErrSkipped for optional hooks and an error otherwise.
func readSource(env Env, spec manifest.HookSpec) ([]byte, error) {
	data, ok, err := fsutil.ReadFileIfExists(env.Fs, fsutil.Rooted(spec.Source))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", spec.Source, err)
	}
	if !ok {
		if spec.Optional {
			return nil, ErrSkipped
		}
		return nil, fmt.Errorf("source %s not found", spec.Source)
	}
	return data, nil
}

// writeIfChanged writes content to the project-relative target unless the
// file already holds exactly that.
func writeIfChanged(env Env, target string, content []byte) error {
	p := fsutil.Rooted(target)
	old, ok, err := fsutil.ReadFileIfExists(env.Fs, p)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}
	if ok && string(old) == string(content) {
		return nil
	}
	if err := fsutil.WriteFileAtomic(env.Fs, p, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}
