package punch

import "errors"

// Category errors. Every leaf error below matches exactly one of them.
var (
	ErrPunchStateConflict     = errors.New("punch state conflict")
	ErrOutsideScheduledWindow = errors.New("outside the scheduled window")
)

var (
	ErrAlreadyPunchedIn  = &punchError{kind: ErrPunchStateConflict, msg: "already punched in"}
	ErrAlreadyPunchedOut = &punchError{kind: ErrPunchStateConflict, msg: "already punched out"}
	ErrNoPunchInFound    = &punchError{kind: ErrPunchStateConflict, msg: "no punch-in found"}

	ErrScheduleUnset    = &punchError{kind: ErrOutsideScheduledWindow, msg: "shift start or end time is not set"}
	ErrBeforeShiftStart = &punchError{kind: ErrOutsideScheduledWindow, msg: "cannot punch in before the shift starts"}
	ErrAfterShiftEnd    = &punchError{kind: ErrOutsideScheduledWindow, msg: "cannot punch in after the shift has ended"}

	ErrShiftNotFound = errors.New("shift not found")
	ErrNotAssigned   = errors.New("shift is not assigned to this worker")
)

type punchError struct {
	kind error
	msg  string
}

func (e *punchError) Error() string { return e.msg }

func (e *punchError) Unwrap() error { return e.kind }
