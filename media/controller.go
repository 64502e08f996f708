package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Controller is the set of media and volume actions a gesture can trigger.
// Exactly one implementation is active per process; New picks it for the
// host platform.
type Controller interface {
	PlayPause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	VolumeUp(ctx context.Context) error
	VolumeDown(ctx context.Context) error
}

// Describer is implemented by controllers that can summarize the tooling
// they detected.
type Describer interface {
	Describe() string
}

// Action names used in ActionError.
const (
	ActionPlayPause  = "play-pause"
	ActionNext       = "next"
	ActionPrevious   = "previous"
	ActionVolumeUp   = "volume-up"
	ActionVolumeDown = "volume-down"
)

var (
	ErrNoPlayer    = errors.New("no controllable media player")
	ErrNoMixer     = errors.New("no volume mixer available")
	ErrUnsupported = errors.New("media control not supported on this platform")
)

// ActionError reports that a controller could not carry out an action.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func actionError(action string, err error) error {
	if err == nil {
		return nil
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return err
	}
	return &ActionError{Action: action, Err: err}
}

// runFunc runs an external tool. Controllers hold one so tests can observe
// the command lines without executing anything.
type runFunc func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// lookPath returns the absolute path of tool, or "" if it is not installed.
func lookPath(tool string) string {
	p, err := exec.LookPath(tool)
	if err != nil {
		return ""
	}
	return p
}
