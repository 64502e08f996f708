//go:build !linux && !darwin && !windows
// +build !linux,!darwin,!windows

package media

import "context"

// unsupportedController fails every action.
type unsupportedController struct{}

// New creates the media controller for the current platform
func New() Controller {
	return unsupportedController{}
}

func (unsupportedController) Describe() string {
	return "unsupported platform: media actions will fail"
}

func (unsupportedController) PlayPause(ctx context.Context) error {
	return &ActionError{Action: ActionPlayPause, Err: ErrUnsupported}
}

func (unsupportedController) Next(ctx context.Context) error {
	return &ActionError{Action: ActionNext, Err: ErrUnsupported}
}

func (unsupportedController) Previous(ctx context.Context) error {
	return &ActionError{Action: ActionPrevious, Err: ErrUnsupported}
}

func (unsupportedController) VolumeUp(ctx context.Context) error {
	return &ActionError{Action: ActionVolumeUp, Err: ErrUnsupported}
}

func (unsupportedController) VolumeDown(ctx context.Context) error {
	return &ActionError{Action: ActionVolumeDown, Err: ErrUnsupported}
}
