package internal

import "errors"

// Status steers the request pipeline. Every lifecycle method (plugin
// phases, controller init/action/finalize) returns exactly one Status;
// the framework threads it explicitly between phases.
type Status int

const (
	// Forward continues normal processing with the next step.
	Forward Status = iota

	// Stop aborts the remaining steps of the current phase only.
	Stop

	// Halt aborts the remaining steps of the current phase and skips
	// straight to the response phase (no controller, no post-plugins).
	Halt

	// Quit aborts the whole pipeline and produces no output.
	Quit

	// Restart re-runs the current phase from the start: plugin phases
	// regenerate their chain, the controller phase re-invokes Init.
	Restart

	// Reboot restarts the entire pipeline from name resolution,
	// against the same request object.
	Reboot
)

func (s Status) String() string {
	switch s {
	case Forward:
		return "forward"
	case Stop:
		return "stop"
	case Halt:
		return "halt"
	case Quit:
		return "quit"
	case Restart:
		return "restart"
	case Reboot:
		return "reboot"
	default:
		return "unknown"
	}
}

// flowInterrupt carries a Status through an error return, for call depths
// where threading the status explicitly is inconvenient (e.g. helpers
// several frames below an action). It must be converted back to a Status
// at the phase-loop boundary and never escape the framework.
type flowInterrupt struct {
	status Status
}

func (f *flowInterrupt) Error() string {
	return "temma: flow interrupt: " + f.status.String()
}

// Interrupt returns an error that the phase loops convert back into the
// given status.
//
// Example:
//
//	func (c *authPlugin) PrePlugin(l *temma.Loader) (temma.Status, error) {
//	    return temma.Forward, temma.Interrupt(temma.Halt)
//	}
func Interrupt(s Status) error {
	return &flowInterrupt{status: s}
}

// InterruptStatus extracts the status from a flow-interrupt error.
// The second return value reports whether err carried one.
func InterruptStatus(err error) (Status, bool) {
	var fi *flowInterrupt
	if errors.As(err, &fi) {
		return fi.status, true
	}
	return Forward, false
}

// stepStatus normalizes a lifecycle step result: flow interrupts become
// plain statuses, any other error propagates untouched.
func stepStatus(s Status, err error) (Status, error) {
	if err == nil {
		return s, nil
	}
	if st, ok := InterruptStatus(err); ok {
		return st, nil
	}
	return s, err
}
