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

package construct

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"dirpx.dev/whitebox/apis"
)

var (
	// ErrAbstract is returned for interface types, which have no instances of their own.
	ErrAbstract = errors.New("whitebox(construct): type is abstract")
	// ErrNotStruct is returned when the requested type is neither a struct nor a pointer to one.
	ErrNotStruct = errors.New("whitebox(construct): type is not a struct")
	// ErrNoConstructor is returned when no constructor is registered for exactly the requested type.
	ErrNoConstructor = errors.New("whitebox(construct): no zero-argument constructor registered")
	// ErrNilResult is returned when a pointer-returning constructor yields nil for a value type.
	ErrNilResult = errors.New("whitebox(construct): constructor returned nil")
)

// Instantiate builds a value of t with the zero-argument constructor registered
// for exactly t's struct type. t may be the struct type or a pointer to it and
// the result always has type t. The constructor is called as a plain function
// value without elevation. Every failure is CannotInstantiate; a returned
// error or a panic raised by the constructor becomes the cause.
func Instantiate(reg apis.Registry, t reflect.Type) (out any, err error) {
	if t == nil {
		return nil, apis.CannotInstantiateType(nil, errors.WithStack(ErrNotStruct))
	}
	if t.Kind() == reflect.Interface {
		return nil, apis.CannotInstantiateType(t, errors.WithStack(ErrAbstract))
	}
	owner := t
	if owner.Kind() == reflect.Ptr {
		owner = owner.Elem()
	}
	if owner.Kind() != reflect.Struct {
		return nil, apis.CannotInstantiateType(t, errors.WithStack(ErrNotStruct))
	}
	var ctor reflect.Value
	ok := false
	if reg != nil {
		ctor, ok = reg.Constructor(owner)
	}
	if !ok {
		return nil, apis.CannotInstantiateType(t, errors.Wrapf(ErrNoConstructor, "%s", owner))
	}

	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = errors.New(fmt.Sprint(r))
			}
			out, err = nil, apis.CannotInstantiateType(t, errors.WithStack(cause))
		}
	}()
	results := ctor.Call(nil)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, apis.CannotInstantiateType(t, results[1].Interface().(error))
	}

	v := results[0]
	switch {
	case v.Type() == t:
	case t.Kind() == reflect.Ptr:
		p := reflect.New(owner)
		p.Elem().Set(v)
		v = p
	default:
		if v.IsNil() {
			return nil, apis.CannotInstantiateType(t, errors.WithStack(ErrNilResult))
		}
		v = v.Elem()
	}
	return v.Interface(), nil
}
