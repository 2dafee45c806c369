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

package resolver

import (
	"reflect"
	"strings"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/primitive"
	uref "dirpx.dev/whitebox/utils/reflect"
)

// Method resolves name on scope in three stages: by name, by argument count,
// then by argument types. A nil entry in args stands for an untyped nil.
// The first stage that leaves exactly one candidate selects it.
func (r *resolver) Method(scope reflect.Type, name string, args []reflect.Type) (apis.Method, error) {
	byName := r.candidates(scope, name)
	switch len(byName) {
	case 0:
		r.log.Debug("method not found", "scope", scope, "name", name)
		return apis.Method{}, apis.NoSuchMethod(name, "")
	case 1:
		return r.selected(scope, byName[0], args)
	}

	var byArity []apis.Method
	for _, m := range byName {
		if m.Arity(len(args)) {
			byArity = append(byArity, m)
		}
	}
	switch len(byArity) {
	case 0:
		r.log.Debug("method not found", "scope", scope, "name", name, "candidates", len(byName))
		return apis.Method{}, apis.NoSuchMethod(name, "parameter count")
	case 1:
		return r.selected(scope, byArity[0], args)
	}

	var byType []apis.Method
	for _, m := range byArity {
		if Accepts(m, args) {
			byType = append(byType, m)
		}
	}
	switch len(byType) {
	case 0:
		r.log.Debug("method not found", "scope", scope, "name", name, "candidates", len(byArity))
		return apis.Method{}, apis.NoSuchMethod(name, "parameter types")
	case 1:
		r.log.Debug("method resolved", "scope", scope, "name", name, "owner", byType[0].Owner)
		return byType[0], nil
	default:
		r.log.Debug("method ambiguous", "scope", scope, "name", name, "candidates", len(byType))
		return apis.Method{}, apis.AmbiguousMethod(name, len(byType))
	}
}

// selected checks that args fit a candidate chosen before the type stage.
func (r *resolver) selected(scope reflect.Type, m apis.Method, args []reflect.Type) (apis.Method, error) {
	if !Accepts(m, args) {
		r.log.Debug("method arguments rejected", "scope", scope, "name", m.Name, "owner", m.Owner)
		return apis.Method{}, apis.Invalid(m.Name, "cannot invoke %s with arguments (%s)", m.Signature(), typeList(args))
	}
	r.log.Debug("method resolved", "scope", scope, "name", m.Name, "owner", m.Owner)
	return m, nil
}

// candidates merges the strategies' output. A candidate whose function type
// an earlier strategy already yielded is dropped; candidates from one strategy
// are all kept.
func (r *resolver) candidates(scope reflect.Type, name string) []apis.Method {
	if scope == nil || name == "" {
		return nil
	}
	var out []apis.Method
	seen := map[reflect.Type]bool{}
	for _, s := range r.strats {
		ms, ok := s.TryMethods(scope, name)
		if !ok {
			continue
		}
		var fresh []reflect.Type
		for _, m := range ms {
			ft := m.Func.Type()
			if seen[ft] {
				continue
			}
			fresh = append(fresh, ft)
			out = append(out, m)
		}
		for _, ft := range fresh {
			seen[ft] = true
		}
	}
	return out
}

// Accepts reports whether arguments of the given types can be passed to m.
// A nil type is an untyped nil, accepted by nilable parameters.
func Accepts(m apis.Method, args []reflect.Type) bool {
	if !m.Arity(len(args)) {
		return false
	}
	for i, a := range args {
		p := m.Param(i)
		if a == nil {
			if !uref.IsNilable(p) {
				return false
			}
			continue
		}
		if !primitive.Assignable(p, a) {
			return false
		}
	}
	return true
}

func typeList(args []reflect.Type) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = apis.TypeName(a)
	}
	return strings.Join(parts, ", ")
}
