package runner

// This file provides YAML run plans: a declarative selection of which
// registered test methods to run and what outcome each is expected to have.

import (
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Plan selects and annotates test methods for a run.
//
// Plans are defined in YAML:
//
//	suite: arithmetic
//	include:
//	  - "Test*"
//	exclude:
//	  - "*Slow"
//	expect:
//	  TestKnownGap: fail
//
// Include and exclude entries are glob patterns matched against method
// names. An empty include list selects every registered method. Expected
// outcomes default to pass; "fail" marks a method whose failures are the
// documented behavior under conformance runs.
type Plan struct {
	Suite   string            `yaml:"suite"`
	Include []string          `yaml:"include,omitempty"`
	Exclude []string          `yaml:"exclude,omitempty"`
	Expect  map[string]string `yaml:"expect,omitempty"`
}

// LoadPlan reads and validates a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	plan := &Plan{}
	if err := yaml.Unmarshal(raw, plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}

	return plan, nil
}

// Validate checks every glob pattern and expectation value up front, so a
// bad plan fails before any test runs.
func (p *Plan) Validate() error {
	for _, pattern := range append(append([]string{}, p.Include...), p.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", ErrBadPattern, pattern)
		}
	}

	for method, outcome := range p.Expect {
		if outcome != "pass" && outcome != "fail" {
			return fmt.Errorf("%w: %s expects %q (want pass or fail)",
				ErrBadExpectation, method, outcome)
		}
	}

	return nil
}

// Selects reports whether the named method is in the plan: matched by the
// include list (or the list is empty) and not matched by the exclude list.
func (p *Plan) Selects(method string) (bool, error) {
	included := len(p.Include) == 0

	for _, pattern := range p.Include {
		match, err := doublestar.Match(pattern, method)
		if err != nil {
			return false, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
		}

		if match {
			included = true
			break
		}
	}

	if !included {
		return false, nil
	}

	for _, pattern := range p.Exclude {
		match, err := doublestar.Match(pattern, method)
		if err != nil {
			return false, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
		}

		if match {
			return false, nil
		}
	}

	return true, nil
}

// ExpectedOutcome returns the declared expectation for the method, Passed
// when the plan says nothing about it.
func (p *Plan) ExpectedOutcome(method string) (Outcome, error) {
	declared, ok := p.Expect[method]
	if !ok {
		return Passed, nil
	}

	switch declared {
	case "pass":
		return Passed, nil
	case "fail":
		return Failed, nil
	default:
		return Passed, fmt.Errorf("%w: %s expects %q", ErrBadExpectation, method, declared)
	}
}

// Errors.
var (
	// ErrBadPattern reports an invalid include/exclude glob.
	ErrBadPattern = errors.New("invalid method pattern")
	// ErrBadExpectation reports an expect value other than pass or fail.
	ErrBadExpectation = errors.New("invalid expected outcome")
)
