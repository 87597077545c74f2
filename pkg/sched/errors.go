// Copyright 2019 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sched

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code is one of the scheduler's wire-level error codes, returned to
// clients of the request dispatcher.
type Code int

const (
	// OK indicates success.
	OK Code = iota
	// EPERM is returned when the sender of a mutating request is not
	// authorized (accept_message rejected it).
	EPERM
	// EBADEPT is returned for an unknown endpoint, or one in the wrong
	// occupancy state for the request (e.g. start on an in-use slot).
	EBADEPT
	// EINVAL is returned for a nice value out of range, or a resulting
	// queue index at or beyond NrSchedQueues.
	EINVAL
	// EBADCPU is returned only once every CPU has been marked dead by
	// the retry loop in pickCPU/pickCPUAndDispatch.
	EBADCPU
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case EPERM:
		return "EPERM"
	case EBADEPT:
		return "EBADEPT"
	case EINVAL:
		return "EINVAL"
	case EBADCPU:
		return "EBADCPU"
	default:
		return "EUNKNOWN"
	}
}

// SchedError is the error type returned by every exported scheduler
// operation. It always carries one of the wire-level Codes above.
type SchedError struct {
	Code  Code
	cause error
}

func (e *SchedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.cause)
	}
	return e.Code.String()
}

func (e *SchedError) Unwrap() error { return e.cause }

// schedError builds a *SchedError for the given code, wrapping an optional
// formatted cause in the same style as the teacher's resmgrError helper.
func schedError(code Code, format string, args ...interface{}) *SchedError {
	if format == "" {
		return &SchedError{Code: code}
	}
	return &SchedError{Code: code, cause: errors.Errorf(format, args...)}
}

// wrapKernelError wraps an error returned by the kernel dispatch bridge,
// preserving the underlying cause for %w-style unwrapping.
func wrapKernelError(code Code, cause error, format string, args ...interface{}) *SchedError {
	return &SchedError{Code: code, cause: errors.Wrapf(cause, format, args...)}
}

// CodeOf extracts the wire-level Code from err, defaulting to OK if err is
// nil and to EBADEPT (a generic internal failure marker) otherwise.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var se *SchedError
	if errors.As(err, &se) {
		return se.Code
	}
	return EBADEPT
}
