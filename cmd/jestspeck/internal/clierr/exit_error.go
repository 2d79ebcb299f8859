// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clierr maps command failures to the exit codes of the jestspeck binary.
package clierr

import (
	"errors"
	"fmt"
)

// Exit codes of the jestspeck binary.
const (
	ExitFailure     = 1
	ExitUsage       = 2
	ExitFilesFailed = 3
)

// ExitError tags a failed operation with the code main exits with.
type ExitError struct {
	Code int
	Op   string
	Err  error
}

func (e *ExitError) Error() string {
	switch {
	case e.Err == nil:
		return e.Op
	case e.Op == "":
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Usage reports a bad flag, argument or configuration value met while doing op.
func Usage(op string, err error) error {
	return &ExitError{Code: ExitUsage, Op: op, Err: err}
}

// Usagef reports a usage problem that has no underlying cause.
func Usagef(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Op: fmt.Sprintf(format, args...)}
}

// FilesFailed reports a sweep that finished but could not process every source.
func FilesFailed(op string, err error) error {
	return &ExitError{Code: ExitFilesFailed, Op: op, Err: err}
}

// ExitCodeOf returns the exit code for err: 0 for nil, the tagged code when
// err wraps an ExitError with a positive code, ExitFailure otherwise.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) && ee.Code > 0 {
		return ee.Code
	}
	return ExitFailure
}
