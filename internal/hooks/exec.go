package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dotsync-labs/dotsync/internal/branding"
	"github.com/dotsync-labs/dotsync/internal/fsutil"
	"github.com/dotsync-labs/dotsync/internal/manifest"
)

type command struct {
	spec manifest.HookSpec
	env  Env
}

func (h *command) Name() string { return h.spec.Name }

// Regenerate runs the command in projectRoot. The project directory is also
// exported as <PREFIX>_PROJECT_DIR. A command with a locked target is not
// run at all.
func (h *command) Regenerate(ctx context.Context, projectRoot string) error {
	if err := h.env.checkTarget(h.spec.Target); err != nil {
		return err
	}
	if h.spec.Optional {
		skip, err := h.missing()
		if err != nil {
			return err
		}
		if skip {
			return ErrSkipped
		}
	}

	cmd := exec.CommandContext(ctx, h.spec.Command[0], h.spec.Command[1:]...)
	cmd.Dir = projectRoot
	cmd.Env = append(os.Environ(), branding.EnvVar("PROJECT_DIR")+"="+projectRoot)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", strings.Join(h.spec.Command, " "), err, msg)
		}
		return fmt.Errorf("%s: %w", strings.Join(h.spec.Command, " "), err)
	}

	if out := strings.TrimSpace(stdout.String()); out != "" {
		h.env.logger().Debug("hook output", "hook", h.spec.Name, "output", out)
	}
	return nil
}

// missing reports whether an optional command has nothing to run: its
// declared source is absent or its program is not installed.
func (h *command) missing() (bool, error) {
	if h.spec.Source != "" {
		ok, err := fsutil.Exists(h.env.Fs, fsutil.Rooted(h.spec.Source))
		if err != nil {
			return false, fmt.Errorf("checking %s: %w", h.spec.Source, err)
		}
		if !ok {
			return true, nil
		}
	}
	prog := h.spec.Command[0]
	if strings.ContainsRune(prog, '/') {
		return false, nil
	}
	if _, err := exec.LookPath(prog); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}
