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
	"reflect"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/construct"
)

// InstantiateDefault builds a value of t with the zero-argument constructor
// registered for exactly t. t may be a struct type or a pointer to one.
func InstantiateDefault(t reflect.Type) (any, error) {
	v, err := construct.Instantiate(st.Load().reg, t)
	if err != nil {
		return nil, wrap("InstantiateDefault", err)
	}
	return v, nil
}

// New is the generic form of InstantiateDefault.
func New[T any]() (T, error) {
	var zero T
	v, err := construct.Instantiate(st.Load().reg, reflect.TypeFor[T]())
	if err != nil {
		return zero, wrap("New", err)
	}
	return v.(T), nil
}

// Get returns the field named name as a T.
func Get[T any](h *Handle, name string) (T, error) {
	var zero T
	v, err := h.GetByName(name)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, wrap("Get", apis.Invalid(name, "field %s holds %T, not %s", name, v, reflect.TypeFor[T]()))
	}
	return out, nil
}

// GetAs returns the single field whose declared type accepts a T.
func GetAs[T any](h *Handle) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	v, err := h.GetByType(t)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, wrap("GetAs", apis.Invalid(t.String(), "field holds %T, not %s", v, t))
	}
	return out, nil
}

// RegisterVar adds the package variable behind ptr to owner's static members
// in the global registry.
func RegisterVar(owner reflect.Type, name string, ptr any) error {
	return st.Load().reg.RegisterVar(owner, name, ptr)
}

// RegisterConst adds a read-only constant to owner's static members in the global registry.
func RegisterConst(owner reflect.Type, name string, value any) error {
	return st.Load().reg.RegisterConst(owner, name, value)
}

// RegisterConstructor records fn as the zero-argument constructor of the type it returns.
func RegisterConstructor(fn any) error {
	return st.Load().reg.RegisterConstructor(fn)
}

// RegisterMethod records fn, whose first parameter is the receiver, as a method
// of owner. Several functions may share a name.
func RegisterMethod(owner reflect.Type, name string, fn any) error {
	return st.Load().reg.RegisterMethod(owner, name, fn)
}
