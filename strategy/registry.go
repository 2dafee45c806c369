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

	"dirpx.dev/whitebox/apis"
)

// NewRegistryStrategy creates an apis.Strategy that yields methods registered in reg.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy consults a provided apis.Registry. It is the only source of
// unexported methods and of overloads.
type registryStrategy struct {
	reg apis.Registry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryMethods returns every function registered for exactly scope under name.
func (s *registryStrategy) TryMethods(scope reflect.Type, name string) ([]apis.Method, bool) {
	if scope == nil || s.reg == nil {
		return nil, false
	}
	var out []apis.Method
	for _, e := range s.reg.Methods(scope) {
		if e.Name == name {
			out = append(out, method(name, scope, e.Func, true))
		}
	}
	return out, len(out) > 0
}

// method describes fn, whose first input is the receiver, as a candidate.
func method(name string, owner reflect.Type, fn reflect.Value, registered bool) apis.Method {
	ft := fn.Type()
	params := make([]reflect.Type, 0, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}
	return apis.Method{
		Name:       name,
		Params:     params,
		Variadic:   ft.IsVariadic(),
		Owner:      owner,
		Func:       fn,
		Registered: registered,
	}
}
