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

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/primitive"
	uref "dirpx.dev/whitebox/utils/reflect"
)

// Fields returns the candidate set visible at scope.
func (r *resolver) Fields(scope reflect.Type) []apis.Member {
	return r.ex.Extract(scope)
}

// FieldByName returns the field named name. When scope has no such visible
// field the lookup is repeated from each ancestor in turn, where that
// ancestor's private fields are visible.
func (r *resolver) FieldByName(scope reflect.Type, name string) (apis.Member, error) {
	if name == "" {
		return apis.Member{}, apis.Invalid(name, "field name must not be empty")
	}
	for _, t := range r.walk(scope) {
		for _, m := range r.ex.Extract(t) {
			if m.Name == name {
				r.log.Debug("field resolved", "scope", scope, "name", name, "owner", m.Owner)
				return m, nil
			}
		}
	}
	r.log.Debug("field not found", "scope", scope, "name", name)
	return apis.Member{}, apis.NoSuchFieldNamed(name)
}

// FieldByType returns the single field whose declared type accepts a value of
// type query. Fields declared as any never match. The lookup walks up like
// FieldByName; an ambiguous level ends it.
func (r *resolver) FieldByType(scope reflect.Type, query reflect.Type) (apis.Member, error) {
	if query == nil || uref.IsAny(query) {
		return apis.Member{}, apis.Invalid(apis.TypeName(query),
			"cannot find field for %s, must specify it by name", apis.TypeName(query))
	}
	for _, t := range r.walk(scope) {
		var matches []apis.Member
		for _, m := range r.ex.Extract(t) {
			if uref.IsAny(m.Type) || !primitive.Assignable(m.Type, query) {
				continue
			}
			matches = append(matches, m)
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			r.log.Debug("field resolved", "scope", scope, "type", query, "name", matches[0].Name, "owner", matches[0].Owner)
			return matches[0], nil
		default:
			names := make([]string, 0, len(matches))
			for _, m := range matches {
				names = append(names, m.Name)
			}
			r.log.Debug("field ambiguous", "scope", scope, "type", query, "candidates", names)
			return apis.Member{}, apis.AmbiguousField(query, names)
		}
	}
	r.log.Debug("field not found", "scope", scope, "type", query)
	return apis.Member{}, apis.NoSuchFieldFor(query)
}
