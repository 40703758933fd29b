package core

// This file provides FailureRecord and the failure signal raised by FailNow.

import "fmt"

// FailureRecord is an immutable description of one failed assertion. It is
// owned by the TestCase that created it until drained into a TestResult.
type FailureRecord struct {
	message     string
	description string
	location    Location
	located     bool
}

// newFailureRecord builds a record for a failure raised in the named test
// method, attributing the source location from the given frames. The frames
// must be captured at the raise point, not at the catch point.
func newFailureRecord(caseName, methodName, message string, frames []Frame, attributor *Attributor) FailureRecord {
	record := FailureRecord{message: message}

	record.location, record.located = attributor.Attribute(frames)
	if record.located {
		record.description = fmt.Sprintf("%s.%s() (%s:%d)",
			caseName, methodName, record.location.File, record.location.Line)
	} else {
		record.description = fmt.Sprintf("%s.%s()", caseName, methodName)
	}

	return record
}

// Message returns the human-readable assertion failure text.
func (r FailureRecord) Message() string { return r.message }

// Description combines the owning case name, method name, and, when one was
// attributable, the source file:line of the offending call.
func (r FailureRecord) Description() string { return r.description }

// SourceLocation returns the attributed call site. The second return is
// false when no non-framework frame was found in the captured stack.
func (r FailureRecord) SourceLocation() (Location, bool) {
	return r.location, r.located
}

func (r FailureRecord) String() string {
	return r.description + ": " + r.message
}

// failureSignal is the panic payload raised by T.FailNow. It is the only
// panic the engine absorbs: the wrapper around each unit of work records the
// carried failure and ends that unit normally, while any other panic
// propagates out of Run as a fatal fault.
type failureSignal struct {
	record FailureRecord
}
