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
	"reflect"
)

// Extractor produces the ordered set of visible field candidates for a type.
type Extractor interface {
	// Extract returns the visible members of start and its ancestors,
	// ordered by (name, declared type name).
	Extract(start reflect.Type) []Member
}

// Resolver locates exactly one member for a query.
// Implementations hold no per-call state and are safe for concurrent use.
type Resolver interface {
	// Fields returns the candidate set visible at scope.
	Fields(scope reflect.Type) []Member

	// FieldByName resolves a field by exact name, walking up from scope.
	FieldByName(scope reflect.Type, name string) (Member, error)

	// FieldByType resolves the single field whose declared type accepts query.
	FieldByType(scope reflect.Type, query reflect.Type) (Member, error)

	// Method resolves the method named name on scope for the given arguments.
	Method(scope reflect.Type, name string, args []reflect.Type) (Method, error)
}
