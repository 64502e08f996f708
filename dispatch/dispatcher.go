package dispatch

import (
	"context"
	"fmt"
	"time"

	"gesture-bridge/logger"
	"gesture-bridge/media"
	"gesture-bridge/protocol"
)

// DefaultActionTimeout bounds a single controller call.
const DefaultActionTimeout = 5 * time.Second

// Outcome tags the result of handling one line.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes what Dispatch did with a line. Command is only
// meaningful when Recognized is true; Err only when Outcome is OutcomeFailed.
type Result struct {
	Line       string
	Command    protocol.Command
	Recognized bool
	Outcome    Outcome
	Err        error
	Duration   time.Duration
}

// Dispatcher routes recognized commands to a media.Controller.
type Dispatcher struct {
	ctrl media.Controller

	// ActionTimeout bounds each controller call. Zero means no bound.
	ActionTimeout time.Duration

	// OnResult, if set, observes every result. It runs on the dispatching
	// goroutine.
	OnResult func(Result)
}

func New(ctrl media.Controller) *Dispatcher {
	return &Dispatcher{ctrl: ctrl, ActionTimeout: DefaultActionTimeout}
}

// Dispatch invokes the controller method matching line, at most once. It
// never returns an error and never panics: controller failures are logged
// and reported in the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) Result {
	res := Result{Line: line}

	cmd, ok := protocol.Parse(line)
	if !ok {
		logger.Info("Ignored unknown command: %q", line)
		res.Outcome = OutcomeIgnored
		d.notify(res)
		return res
	}
	res.Command = cmd
	res.Recognized = true

	start := time.Now()
	err := d.invoke(ctx, cmd)
	res.Duration = time.Since(start)

	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		logger.Error("Error executing command %s: %v", cmd, err)
	} else {
		res.Outcome = OutcomeSucceeded
	}
	logger.Command(cmd.String(), res.Outcome.String(), err)

	d.notify(res)
	return res
}

// HandleLine adapts Dispatch to the connection manager's line handler.
func (d *Dispatcher) HandleLine(ctx context.Context, line string) error {
	d.Dispatch(ctx, line)
	return nil
}

func (d *Dispatcher) invoke(ctx context.Context, cmd protocol.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s handler: %v", cmd, r)
		}
	}()

	if d.ActionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.ActionTimeout)
		defer cancel()
	}

	switch cmd {
	case protocol.PlayPause:
		return d.ctrl.PlayPause(ctx)
	case protocol.Next:
		return d.ctrl.Next(ctx)
	case protocol.Previous:
		return d.ctrl.Previous(ctx)
	case protocol.VolumeUp:
		return d.ctrl.VolumeUp(ctx)
	case protocol.VolumeDown:
		return d.ctrl.VolumeDown(ctx)
	default:
		return fmt.Errorf("no handler for command %d", int(cmd))
	}
}

func (d *Dispatcher) notify(res Result) {
	if d.OnResult == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Result observer panicked: %v", r)
		}
	}()
	d.OnResult(res)
}
