// Package core provides the internal implementation of tickunit's test
// execution engine: test cases, cooperative scheduling of test bodies,
// failure recording, and source attribution.
package core

import (
	"runtime"
	"strings"
)

// This file provides stack attribution: finding the user-code call site
// responsible for a failed assertion.

// maxFrames bounds how much of the stack is captured at a raise point.
// Assertion failures happen a handful of calls deep; 64 is far more than
// any wrapper path in this module produces.
const maxFrames = 64

// Frame is one captured stack frame. Slices of frames are ordered from the
// innermost frame outward.
type Frame struct {
	// Function is the fully qualified function name, e.g.
	// "github.com/someone/pkg.(*Thing).Method".
	Function string
	// File is the full path of the source file, empty if unresolvable.
	File string
	Line int
}

// Location is a resolved source position for a failure.
type Location struct {
	File string
	Line int
}

// Attributor resolves the user-visible call site of a failure from a
// captured stack. Frames belonging to the testing framework itself are
// skipped so the reported line is the one in the user's test body that
// invoked the assertion, however deep the wrapper path was.
type Attributor struct {
	markers []string
}

// internalMarkers identify this module's own frames. A marker matches a
// frame when it is a prefix of the frame's qualified function name or a
// substring of the frame's file path. The function-name form is preferred
// (it is structural), the file-path form is kept for callers that can only
// name files. Note the trailing dots: they keep "internal/core." from
// swallowing frames of external test packages like "internal/core_test.".
var internalMarkers = []string{
	"github.com/tickunit/tickunit/internal/core.",
	"github.com/tickunit/tickunit/internal/runner.",
	"github.com/tickunit/tickunit.",
	"runtime.",
}

// NewAttributor returns an Attributor that skips frames matching any of the
// given markers in addition to this module's own frames.
func NewAttributor(markers ...string) *Attributor {
	combined := make([]string, 0, len(internalMarkers)+len(markers))
	combined = append(combined, internalMarkers...)
	combined = append(combined, markers...)

	return &Attributor{markers: combined}
}

// Attribute scans the frames from innermost outward and returns the first
// one that does not belong to the framework. Frames with no resolvable file
// name are skipped without matching or rejecting, so a single bad frame
// cannot hide the true call site. Returns false if no frame qualifies.
func (a *Attributor) Attribute(frames []Frame) (Location, bool) {
	for _, frame := range frames {
		if frame.File == "" {
			continue
		}

		if a.internal(frame) {
			continue
		}

		return Location{File: frame.File, Line: frame.Line}, true
	}

	return Location{}, false
}

func (a *Attributor) internal(frame Frame) bool {
	for _, marker := range a.markers {
		if strings.HasPrefix(frame.Function, marker) {
			return true
		}

		if strings.Contains(frame.File, marker) {
			return true
		}
	}

	return false
}

// CaptureFrames captures the current call stack at the raise point, skipping
// the given number of frames beyond CaptureFrames itself.
func CaptureFrames(skip int) []Frame {
	pcs := make([]uintptr, maxFrames)
	// +2 skips runtime.Callers and CaptureFrames.
	n := runtime.Callers(skip+2, pcs)

	frames := runtime.CallersFrames(pcs[:n])
	captured := make([]Frame, 0, n)

	for {
		frame, more := frames.Next()
		captured = append(captured, Frame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})

		if !more {
			break
		}
	}

	return captured
}
