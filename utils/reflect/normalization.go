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

package reflect

import (
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/viant/xunsafe"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectNotStruct indicates that the provided type (after unwrapping pointers)
	// is not a struct.
	ErrReflectNotStruct = errors.New("reflect: type is not a struct")
	// ErrReflectNilInstance indicates a nil value or a nil pointer.
	ErrReflectNilInstance = errors.New("reflect: nil instance")
	// ErrReflectNotAncestor indicates that a type is not reachable through supertype links.
	ErrReflectNotAncestor = errors.New("reflect: type is not an ancestor")
	// ErrReflectNilAncestor indicates a nil embedded pointer on the way to an ancestor.
	ErrReflectNilAncestor = errors.New("reflect: nil embedded ancestor")
)

// Normalize unwraps pointers according to config (MaxDepth) and returns the
// struct type underneath, or an error if none is found.
//
// If MaxDepth <= 0, DefaultMaxDepth is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxDepth
	}
	for i := 0; t.Kind() == reflect.Ptr && i < maxDepth; i++ {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, ErrReflectNotStruct
	}
	return t, nil
}

// Instance validates that v is a non-nil pointer to a struct and returns the
// struct type together with the struct address.
func Instance(v any) (reflect.Type, unsafe.Pointer, error) {
	if v == nil {
		return nil, nil, ErrReflectNilInstance
	}
	t := reflect.TypeOf(v)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return nil, nil, errors.Wrapf(ErrReflectNotStruct, "%s is not a pointer to a struct", t)
	}
	if reflect.ValueOf(v).IsNil() {
		return nil, nil, ErrReflectNilInstance
	}
	return t.Elem(), xunsafe.AsPointer(v), nil
}

// IsAny reports whether t is the empty interface.
func IsAny(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface && t.NumMethod() == 0
}

// IsNilable reports whether the zero value of t is nil.
func IsNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
