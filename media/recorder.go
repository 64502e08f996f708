package media

import (
	"context"
	"sync"

	"gesture-bridge/logger"
)

// Recorder is a Controller that performs no real action. It records every
// call in order and can be told to fail specific actions. Used by tests and
// by dry-run mode.
type Recorder struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

var _ Controller = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{fail: make(map[string]error)}
}

// FailOn makes every future call of action return err wrapped in an
// ActionError. A nil err clears the failure.
func (r *Recorder) FailOn(action string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, action)
		return
	}
	r.fail[action] = err
}

// Calls returns the recorded action names in call order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *Recorder) Describe() string {
	return "dry run (actions are logged, not performed)"
}

func (r *Recorder) record(action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, action)
	logger.Debug("Recorder: %s", action)
	if err, ok := r.fail[action]; ok {
		return &ActionError{Action: action, Err: err}
	}
	return nil
}

func (r *Recorder) PlayPause(ctx context.Context) error  { return r.record(ActionPlayPause) }
func (r *Recorder) Next(ctx context.Context) error       { return r.record(ActionNext) }
func (r *Recorder) Previous(ctx context.Context) error   { return r.record(ActionPrevious) }
func (r *Recorder) VolumeUp(ctx context.Context) error   { return r.record(ActionVolumeUp) }
func (r *Recorder) VolumeDown(ctx context.Context) error { return r.record(ActionVolumeDown) }
