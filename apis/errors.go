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

package apis

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Kind classifies a resolution or access failure.
// Kind implements error so that errors.Is(err, apis.NoSuchMember) matches any
// *Error of that kind anywhere in a wrap chain.
type Kind int

const (
	// NoSuchMember means a name or type query matched zero visible candidates.
	NoSuchMember Kind = iota + 1
	// AmbiguousMember means a query matched more than one candidate.
	AmbiguousMember
	// CannotInstantiate means a constructor is missing, failed, or the type is abstract.
	CannotInstantiate
	// ImmutableSharedMember means a write to a static final member was attempted.
	ImmutableSharedMember
	// InvalidArgument means a nil instance, a wildcard type or a value of the wrong shape.
	InvalidArgument
	// InvokedMemberFailure means the invoked method or constructor itself failed.
	InvokedMemberFailure
)

// String returns a short, stable identifier of the kind.
func (k Kind) String() string {
	switch k {
	case NoSuchMember:
		return "NoSuchMember"
	case AmbiguousMember:
		return "AmbiguousMember"
	case CannotInstantiate:
		return "CannotInstantiate"
	case ImmutableSharedMember:
		return "ImmutableSharedMember"
	case InvalidArgument:
		return "InvalidArgument"
	case InvokedMemberFailure:
		return "InvokedMemberFailure"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Error implements error.
func (k Kind) Error() string {
	return "whitebox: " + k.String()
}

// Error is a classified failure. Its message always embeds the queried name or type.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Query is the queried name or type, rendered as text.
	Query string
	// Candidates lists every matching member name, sorted. Set for AmbiguousMember.
	Candidates []string
	// Message is the human-readable description.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches a Kind sentinel.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// NoSuchFieldNamed reports a by-name field miss.
func NoSuchFieldNamed(name string) *Error {
	return &Error{
		Kind:    NoSuchMember,
		Query:   name,
		Message: fmt.Sprintf("cannot find visible field named %s", name),
	}
}

// NoSuchFieldFor reports a by-type field miss.
func NoSuchFieldFor(t reflect.Type) *Error {
	return &Error{
		Kind:    NoSuchMember,
		Query:   TypeName(t),
		Message: fmt.Sprintf("cannot find visible field for %s", TypeName(t)),
	}
}

// AmbiguousField reports a by-type query that matched several fields.
// names are sorted before they are stored.
func AmbiguousField(t reflect.Type, names []string) *Error {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &Error{
		Kind:       AmbiguousMember,
		Query:      TypeName(t),
		Candidates: sorted,
		Message: fmt.Sprintf("found too many (%d) matches for field %s [%s], specify the field by name instead",
			len(sorted), TypeName(t), strings.Join(sorted, ", ")),
	}
}

// NoSuchMethod reports a method miss. stage is empty for a name miss,
// otherwise it names the filter that eliminated every candidate.
func NoSuchMethod(name, stage string) *Error {
	msg := fmt.Sprintf("cannot find method named %s", name)
	if stage != "" {
		msg += " with correct " + stage
	}
	return &Error{Kind: NoSuchMember, Query: name, Message: msg}
}

// AmbiguousMethod reports an overload set that could not be narrowed to one.
func AmbiguousMethod(name string, count int) *Error {
	return &Error{
		Kind:    AmbiguousMember,
		Query:   name,
		Message: fmt.Sprintf("found %d matches for method %s", count, name),
	}
}

// CannotInstantiateType reports a constructor failure for t.
func CannotInstantiateType(t reflect.Type, cause error) *Error {
	return &Error{
		Kind:    CannotInstantiate,
		Query:   TypeName(t),
		Message: fmt.Sprintf("cannot instantiate type %s", TypeName(t)),
		Cause:   cause,
	}
}

// ImmutableMember reports a write to a static final member.
func ImmutableMember(m Member) *Error {
	return &Error{
		Kind:    ImmutableSharedMember,
		Query:   m.Name,
		Message: fmt.Sprintf("cannot modify static final member %s", m),
	}
}

// Invalid reports an argument of the wrong shape. query names what was asked for.
func Invalid(query string, format string, args ...any) *Error {
	return &Error{
		Kind:    InvalidArgument,
		Query:   query,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvokedFailure reports a failure raised by the invoked member itself.
func InvokedFailure(name string, cause error) *Error {
	return &Error{
		Kind:    InvokedMemberFailure,
		Query:   name,
		Message: fmt.Sprintf("invocation of %s failed", name),
		Cause:   cause,
	}
}

// TypeName renders t for messages; nil renders as "<nil>".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
