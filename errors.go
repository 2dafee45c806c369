/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package whitebox

import (
	"github.com/pkg/errors"

	"dirpx.dev/whitebox/apis"
)

// Error kinds. Match them with errors.Is anywhere in a returned chain:
//
//	if errors.Is(err, whitebox.ErrAmbiguousMember) { ... }
var (
	ErrNoSuchMember          error = apis.NoSuchMember
	ErrAmbiguousMember       error = apis.AmbiguousMember
	ErrCannotInstantiate     error = apis.CannotInstantiate
	ErrImmutableSharedMember error = apis.ImmutableSharedMember
	ErrInvalidArgument       error = apis.InvalidArgument
	ErrInvokedMemberFailure  error = apis.InvokedMemberFailure
)

// Error is the single error type returned by the facade.
type Error struct {
	// Op is the facade operation that failed, e.g. "SetByName".
	Op string
	// Err is the classified cause, carrying the stack of the facade call.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	return "whitebox: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind classifying err, or 0 when err was not produced by
// a resolution or access step.
func KindOf(err error) apis.Kind {
	var e *apis.Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// wrap translates err into an *Error for op. Nil stays nil and an *Error is
// passed through unchanged. Only the top level is checked: an *Error returned
// by an invoked method is a cause, not the result.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*Error); ok {
		return err
	}
	return &Error{Op: op, Err: errors.WithStack(err)}
}
