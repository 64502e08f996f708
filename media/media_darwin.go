//go:build darwin
// +build darwin

package media

import (
	"context"
	"fmt"
)

// AppleScriptController implements Controller through osascript. Playback
// commands go to Music if it is running, else Spotify.
type AppleScriptController struct {
	run runFunc
}

var _ Controller = (*AppleScriptController)(nil)

// New creates the media controller for the current platform
func New() Controller {
	return &AppleScriptController{run: runCommand}
}

func (a *AppleScriptController) Describe() string {
	return "macOS: AppleScript (Music, Spotify)"
}

func (a *AppleScriptController) runAppleScript(ctx context.Context, script string) error {
	return a.run(ctx, "osascript", "-e", script)
}

func playerScript(verb string) string {
	return fmt.Sprintf(`
		if application "Music" is running then
			tell application "Music" to %[1]s
		else if application "Spotify" is running then
			tell application "Spotify" to %[1]s
		else
			error "no media player running"
		end if`, verb)
}

func volumeScript(delta string) string {
	return fmt.Sprintf("set volume output volume ((output volume of (get volume settings)) %s)", delta)
}

func (a *AppleScriptController) PlayPause(ctx context.Context) error {
	return actionError(ActionPlayPause, a.runAppleScript(ctx, playerScript("playpause")))
}

func (a *AppleScriptController) Next(ctx context.Context) error {
	return actionError(ActionNext, a.runAppleScript(ctx, playerScript("next track")))
}

func (a *AppleScriptController) Previous(ctx context.Context) error {
	return actionError(ActionPrevious, a.runAppleScript(ctx, playerScript("previous track")))
}

func (a *AppleScriptController) VolumeUp(ctx context.Context) error {
	return actionError(ActionVolumeUp, a.runAppleScript(ctx, volumeScript("+ 6.25")))
}

func (a *AppleScriptController) VolumeDown(ctx context.Context) error {
	return actionError(ActionVolumeDown, a.runAppleScript(ctx, volumeScript("- 6.25")))
}
