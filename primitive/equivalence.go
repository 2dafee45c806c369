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

// Package primitive links every predeclared basic type with its boxed form.
//
// Go has no autoboxing, but a pointer to a basic value plays the same role:
// it is the nullable, heap-allocated counterpart of the value. A *int value
// may therefore be stored into an int field, the same way a boxed integer
// is accepted by a primitive field.
package primitive

import (
	"reflect"
)

// boxes maps each boxed type to its unboxed counterpart.
// It is populated once at init and never written afterwards.
var boxes = map[reflect.Type]reflect.Type{}

func init() {
	for _, t := range []reflect.Type{
		reflect.TypeFor[bool](),
		reflect.TypeFor[string](),
		reflect.TypeFor[int](),
		reflect.TypeFor[int8](),
		reflect.TypeFor[int16](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[int64](),
		reflect.TypeFor[uint](),
		reflect.TypeFor[uint8](),
		reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](),
		reflect.TypeFor[uint64](),
		reflect.TypeFor[uintptr](),
		reflect.TypeFor[float32](),
		reflect.TypeFor[float64](),
		reflect.TypeFor[complex64](),
		reflect.TypeFor[complex128](),
	} {
		boxes[reflect.PointerTo(t)] = t
	}
}

// Unbox returns the unboxed counterpart of boxed, if boxed is a boxed basic type.
func Unbox(boxed reflect.Type) (reflect.Type, bool) {
	t, ok := boxes[boxed]
	return t, ok
}

// Box returns the boxed counterpart of a basic type.
func Box(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	boxed := reflect.PointerTo(t)
	_, ok := boxes[boxed]
	return boxed, ok
}

// Equivalent reports whether a value of type actual may be stored into
// declared by unboxing.
func Equivalent(declared, actual reflect.Type) bool {
	if declared == nil || actual == nil {
		return false
	}
	t, ok := boxes[actual]
	return ok && t == declared
}

// Assignable reports whether a value of type actual may be treated as a value
// of type declared: actual equals or implements/assigns to declared, or the
// pair is linked by the boxing table.
func Assignable(declared, actual reflect.Type) bool {
	if declared == nil || actual == nil {
		return false
	}
	return actual.AssignableTo(declared) || Equivalent(declared, actual)
}

// Coerce converts v into a value storable in declared.
// An invalid v (untyped nil) becomes the zero value of a nilable declared type.
// A boxed v is unboxed; a nil box cannot be unboxed.
func Coerce(declared reflect.Type, v reflect.Value) (reflect.Value, bool) {
	if !v.IsValid() {
		switch declared.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
			return reflect.Zero(declared), true
		default:
			return reflect.Value{}, false
		}
	}
	if v.Type().AssignableTo(declared) {
		return v, true
	}
	if Equivalent(declared, v.Type()) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		return v.Elem(), true
	}
	return reflect.Value{}, false
}
