//go:build windows
// +build windows

package media

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"
)

// Virtual-key codes of the media and volume keys.
const (
	vkVolumeDown    = 0xAE
	vkVolumeUp      = 0xAF
	vkMediaNext     = 0xB0
	vkMediaPrevious = 0xB1
	vkMediaPlay     = 0xB3

	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
)

var (
	user32         = windows.NewLazySystemDLL("user32.dll")
	procKeybdEvent = user32.NewProc("keybd_event")
)

// KeyController implements Controller by injecting media key presses, which
// every player honoring system media keys reacts to.
type KeyController struct {
	press func(vk byte) error
}

var _ Controller = (*KeyController)(nil)

// New creates the media controller for the current platform
func New() Controller {
	return &KeyController{press: pressKey}
}

func (k *KeyController) Describe() string {
	return "windows: virtual media keys"
}

func pressKey(vk byte) error {
	if err := procKeybdEvent.Find(); err != nil {
		return fmt.Errorf("keybd_event unavailable: %w", err)
	}
	procKeybdEvent.Call(uintptr(vk), 0, keyeventfExtendedKey, 0)
	procKeybdEvent.Call(uintptr(vk), 0, keyeventfExtendedKey|keyeventfKeyUp, 0)
	return nil
}

func (k *KeyController) PlayPause(ctx context.Context) error {
	return actionError(ActionPlayPause, k.press(vkMediaPlay))
}

func (k *KeyController) Next(ctx context.Context) error {
	return actionError(ActionNext, k.press(vkMediaNext))
}

func (k *KeyController) Previous(ctx context.Context) error {
	return actionError(ActionPrevious, k.press(vkMediaPrevious))
}

func (k *KeyController) VolumeUp(ctx context.Context) error {
	return actionError(ActionVolumeUp, k.press(vkVolumeUp))
}

func (k *KeyController) VolumeDown(ctx context.Context) error {
	return actionError(ActionVolumeDown, k.press(vkVolumeDown))
}
