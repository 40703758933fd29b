package core

// This file provides the assertion predicates available on the run handle.
// They are deliberately a minimal set of value checks; each one reports
// through MarkAsFailure and returns, so a failed assertion never stops the
// test body.

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/akedrou/textdiff"
)

// AssertTrue records a failure with the given message unless the condition
// holds.
func (t *T) AssertTrue(condition bool, message string) {
	if condition {
		return
	}

	t.MarkAsFailure(message)
}

// AssertFalse records a failure with the given message if the condition
// holds.
func (t *T) AssertFalse(condition bool, message string) {
	if !condition {
		return
	}

	t.MarkAsFailure(message)
}

// AssertEquals records a failure unless got is deeply equal to want.
// Multiline string mismatches include a unified diff.
func (t *T) AssertEquals(want, got any) {
	if reflect.DeepEqual(want, got) {
		return
	}

	t.MarkAsFailure(equalityFailureMessage(want, got))
}

// AssertNil records a failure unless the value is nil (typed or untyped).
func (t *T) AssertNil(value any) {
	if isNil(value) {
		return
	}

	t.MarkAsFailure(fmt.Sprintf("expected nil, got %#v", value))
}

// AssertNotNil records a failure if the value is nil (typed or untyped).
func (t *T) AssertNotNil(value any) {
	if !isNil(value) {
		return
	}

	t.MarkAsFailure("expected a non-nil value, got nil")
}

func equalityFailureMessage(want, got any) string {
	wantText, wantIsString := want.(string)
	gotText, gotIsString := got.(string)

	multiline := wantIsString && gotIsString &&
		(strings.Contains(wantText, "\n") || strings.Contains(gotText, "\n"))
	if multiline {
		return "expected equal strings, diff:\n" +
			textdiff.Unified("want", "got", wantText, gotText)
	}

	return fmt.Sprintf("expected %#v, got %#v", want, got)
}

// isNil treats untyped nil and nil-valued channels, funcs, interfaces, maps,
// pointers, and slices all as nil.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return reflected.IsNil()
	default:
		return false
	}
}
