// Copyright (C) 2026  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package errors holds the structured error taxonomy shared by the version packages.
//
// Every error that crosses a package boundary carries an ErrorCode, so that callers can tell a
// malformed input apart from missing data or a bad argument without matching on message text.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode classifies a StructuredError.
type ErrorCode string

const (
	// ErrCodeParse indicates malformed grammar input (PEP440, SemVer, or Zerv text).
	ErrCodeParse ErrorCode = "PARSE"
	// ErrCodeConversion indicates a value that cannot be expressed in the target grammar.
	ErrCodeConversion ErrorCode = "CONVERSION"
	// ErrCodeSchema indicates an invalid schema (unknown field, unknown pattern, empty).
	ErrCodeSchema ErrorCode = "SCHEMA"
	// ErrCodeArgument indicates a malformed or out-of-range bump/override argument.
	ErrCodeArgument ErrorCode = "ARGUMENT"
	// ErrCodeConflict indicates mutually exclusive options were given together.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeNoTags indicates that no version tag could be found.
	ErrCodeNoTags ErrorCode = "NO_TAGS"
	// ErrCodeMissingData indicates a value required for rendering is absent.
	ErrCodeMissingData ErrorCode = "MISSING_DATA"
	// ErrCodeUnknownFormat indicates an unsupported input or output format name.
	ErrCodeUnknownFormat ErrorCode = "UNKNOWN_FORMAT"
	// ErrCodeVCS indicates the version-control collaborator failed.
	ErrCodeVCS ErrorCode = "VCS"
	// ErrCodeIO indicates reading input or writing output failed.
	ErrCodeIO ErrorCode = "IO"
)

// StructuredError is an error with a machine-checkable code, a human-readable message, an
// optional cause, and optional key/value context.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	var ret strings.Builder
	fmt.Fprintf(&ret, "[%s] %s", e.Code, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sep := " ("
		for _, k := range keys {
			fmt.Fprintf(&ret, "%s%s=%v", sep, k, e.Context[k])
			sep = ", "
		}
		ret.WriteString(")")
	}
	if e.Cause != nil {
		fmt.Fprintf(&ret, ": %v", e.Cause)
	}
	return ret.String()
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *StructuredError with the same code; this makes
// `errors.Is(err, errors.New(code, ""))` work as a code check.
func (e *StructuredError) Is(target error) bool {
	var other *StructuredError
	if !stderrors.As(target, &other) {
		return false
	}
	return other.Code == e.Code && (other.Message == "" || other.Message == e.Message)
}

// WithContext returns a copy of the error with key set to val in its context.
func (e *StructuredError) WithContext(key string, val interface{}) *StructuredError {
	ret := *e
	ret.Context = make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		ret.Context[k] = v
	}
	ret.Context[key] = val
	return &ret
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// Newf is like New, but formats the message.
func Newf(code ErrorCode, format string, args ...interface{}) *StructuredError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a code and a message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the outermost StructuredError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var serr *StructuredError
	if stderrors.As(err, &serr) {
		return serr.Code
	}
	return ""
}

// HasCode reports whether any StructuredError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var serr *StructuredError
		if !stderrors.As(err, &serr) {
			return false
		}
		if serr.Code == code {
			return true
		}
		err = serr.Cause
	}
	return false
}
