//go:build linux
// +build linux

package media

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"

	"gesture-bridge/logger"
)

const (
	mprisPrefix    = "org.mpris.MediaPlayer2."
	mprisPath      = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisInterface = "org.mpris.MediaPlayer2.Player"
	mprisPreferred = mprisPrefix + "spotify"
)

// LinuxController drives playback through playerctl, or MPRIS on the
// session bus when playerctl is missing, and volume through pactl or amixer.
type LinuxController struct {
	playerctl string
	pactl     string
	amixer    string

	run   runFunc
	mpris func(ctx context.Context, method string) error
}

var _ Controller = (*LinuxController)(nil)

// New creates the media controller for the current platform
func New() Controller {
	c := &LinuxController{
		playerctl: lookPath("playerctl"),
		pactl:     lookPath("pactl"),
		amixer:    lookPath("amixer"),
		run:       runCommand,
		mpris:     callMPRIS,
	}
	for _, hint := range c.setupHints() {
		logger.Warn("%s", hint)
	}
	return c
}

// setupHints lists missing tools worth installing.
func (c *LinuxController) setupHints() []string {
	var hints []string
	if c.playerctl == "" {
		hints = append(hints, "playerctl not found, using D-Bus directly. Install playerctl for better media control: sudo apt install playerctl")
	}
	if c.pactl == "" && c.amixer == "" {
		hints = append(hints, "No volume control tool found, VOL_UP and VOL_DOWN will fail. Install pulseaudio-utils or alsa-utils")
	}
	return hints
}

func (c *LinuxController) Describe() string {
	media := "dbus (fallback)"
	if c.playerctl != "" {
		media = "playerctl"
	}
	volume := "NOT AVAILABLE"
	switch {
	case c.pactl != "":
		volume = "pactl"
	case c.amixer != "":
		volume = "amixer"
	}
	return fmt.Sprintf("linux: media control %s, volume control %s", media, volume)
}

func (c *LinuxController) PlayPause(ctx context.Context) error {
	return c.playback(ctx, ActionPlayPause, "play-pause", "PlayPause")
}

func (c *LinuxController) Next(ctx context.Context) error {
	return c.playback(ctx, ActionNext, "next", "Next")
}

func (c *LinuxController) Previous(ctx context.Context) error {
	return c.playback(ctx, ActionPrevious, "previous", "Previous")
}

func (c *LinuxController) VolumeUp(ctx context.Context) error {
	return c.volume(ctx, ActionVolumeUp, "+5%", "5%+")
}

func (c *LinuxController) VolumeDown(ctx context.Context) error {
	return c.volume(ctx, ActionVolumeDown, "-5%", "5%-")
}

func (c *LinuxController) playback(ctx context.Context, action, playerctlArg, mprisMethod string) error {
	if c.playerctl != "" {
		return actionError(action, c.run(ctx, c.playerctl, playerctlArg))
	}
	return actionError(action, c.mpris(ctx, mprisMethod))
}

func (c *LinuxController) volume(ctx context.Context, action, pactlStep, amixerStep string) error {
	switch {
	case c.pactl != "":
		return actionError(action, c.run(ctx, c.pactl, "set-sink-volume", "@DEFAULT_SINK@", pactlStep))
	case c.amixer != "":
		return actionError(action, c.run(ctx, c.amixer, "set", "Master", amixerStep))
	default:
		return &ActionError{Action: action, Err: ErrNoMixer}
	}
}

// callMPRIS invokes method on the first MPRIS player found on the session
// bus.
func callMPRIS(ctx context.Context, method string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	var names []string
	if err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	dest := pickPlayer(names)
	if dest == "" {
		return ErrNoPlayer
	}

	call := conn.Object(dest, mprisPath).CallWithContext(ctx, mprisInterface+"."+method, 0)
	if call.Err != nil {
		return fmt.Errorf("%s on %s: %w", method, dest, call.Err)
	}
	return nil
}

// pickPlayer prefers Spotify, then the alphabetically first MPRIS name.
func pickPlayer(names []string) string {
	var players []string
	for _, n := range names {
		if n == mprisPreferred {
			return n
		}
		if strings.HasPrefix(n, mprisPrefix) {
			players = append(players, n)
		}
	}
	if len(players) == 0 {
		return ""
	}
	sort.Strings(players)
	return players[0]
}
