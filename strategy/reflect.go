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

package strategy

import (
	"reflect"
	"runtime"

	"dirpx.dev/whitebox/apis"
)

// NewReflectStrategy creates an apis.Strategy that yields the exported methods
// the scope type declares itself.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the fallback for methods that need no registration.
// The method set of *T is used so that pointer and value receivers are both found.
// Methods promoted from embedded types are skipped: an ancestor's method is
// reached by binding with the ancestor as scope.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// TryMethods looks name up among the methods scope declares.
func (reflectStrategy) TryMethods(scope reflect.Type, name string) ([]apis.Method, bool) {
	if scope == nil || scope.Kind() != reflect.Struct || name == "" {
		return nil, false
	}
	m, ok := reflect.PointerTo(scope).MethodByName(name)
	if !ok || promoted(scope, name) {
		return nil, false
	}
	return []apis.Method{method(name, scope, m.Func, false)}, true
}

// autogenerated is the file the runtime reports for compiler-made wrappers.
const autogenerated = "<autogenerated>"

// promoted reports whether the method named name in the method set of *scope
// comes from an embedded field rather than from scope itself.
func promoted(scope reflect.Type, name string) bool {
	if !embeds(scope, name) {
		return false
	}
	// A declared method has a real source file under T or *T. Promotion
	// wrappers, and *T wrappers of value methods, are autogenerated.
	for _, t := range []reflect.Type{scope, reflect.PointerTo(scope)} {
		if m, ok := t.MethodByName(name); ok && declared(m.Func) {
			return false
		}
	}
	return true
}

// embeds reports whether an embedded field of scope provides a method named name.
func embeds(scope reflect.Type, name string) bool {
	for i := 0; i < scope.NumField(); i++ {
		f := scope.Field(i)
		if !f.Anonymous {
			continue
		}
		if _, ok := f.Type.MethodByName(name); ok {
			return true
		}
		if f.Type.Kind() != reflect.Ptr && f.Type.Kind() != reflect.Interface {
			if _, ok := reflect.PointerTo(f.Type).MethodByName(name); ok {
				return true
			}
		}
	}
	return false
}

func declared(fn reflect.Value) bool {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return false
	}
	file, _ := f.FileLine(f.Entry())
	return file != autogenerated
}
