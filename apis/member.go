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
	"unsafe"
)

// Modifiers describes the access and storage flags of a member.
type Modifiers struct {
	// Exported reports whether the member name is exported.
	Exported bool
	// Static reports whether the member is shared by all instances of its owner.
	Static bool
	// Final reports whether the member is a constant that can never be written.
	Final bool
}

// Member is a field candidate produced by an extractor.
// Members are value types; they are produced fresh on every call and never mutated.
type Member struct {
	// Name is the field (or registered static) name.
	Name string
	// Type is the declared type of the member.
	Type reflect.Type
	// Owner is the struct type that declares the member directly.
	Owner reflect.Type
	// Depth is the number of ancestor links between the extraction start and Owner.
	Depth int
	// Modifiers holds the member flags.
	Modifiers Modifiers
	// Field is the struct field for instance members. Zero for static members.
	Field reflect.StructField
	// Static is the registry entry backing a static member. Nil for instance members.
	Static *StaticEntry
}

// Key identifies a member: declaring type, name and declared type.
func (m Member) Key() MemberKey {
	return MemberKey{Owner: m.Owner, Name: m.Name, Type: m.Type}
}

// IsStatic reports whether the member is shared across instances.
func (m Member) IsStatic() bool { return m.Modifiers.Static }

// IsConstant reports whether the member is static and final.
func (m Member) IsConstant() bool { return m.Modifiers.Static && m.Modifiers.Final }

// String returns "Owner.Name" for diagnostics.
func (m Member) String() string {
	if m.Owner == nil {
		return m.Name
	}
	return m.Owner.String() + "." + m.Name
}

// MemberKey is the identity of a Member.
type MemberKey struct {
	Owner reflect.Type
	Name  string
	Type  reflect.Type
}

// Method is a callable candidate for invocation.
type Method struct {
	// Name is the method name.
	Name string
	// Params are the parameter types, receiver excluded.
	Params []reflect.Type
	// Variadic reports whether the last parameter is variadic.
	Variadic bool
	// Owner is the type the method is declared for.
	Owner reflect.Type
	// Func is the callable. Its first input is the receiver.
	Func reflect.Value
	// Registered reports whether the method came from the registry rather than the method set.
	Registered bool
}

// Receiver returns the receiver type expected by Func.
func (m Method) Receiver() reflect.Type {
	return m.Func.Type().In(0)
}

// Arity reports whether the method accepts n arguments.
// A variadic method accepts any count from its fixed parameters upward.
func (m Method) Arity(n int) bool {
	if m.Variadic {
		return n >= len(m.Params)-1
	}
	return n == len(m.Params)
}

// Param returns the type the i-th argument must have.
// Arguments past the fixed parameters of a variadic method take the element type.
func (m Method) Param(i int) reflect.Type {
	if m.Variadic && i >= len(m.Params)-1 {
		return m.Params[len(m.Params)-1].Elem()
	}
	return m.Params[i]
}

// Signature renders name and parameter types for messages, e.g. "foo(int, string)".
func (m Method) Signature() string {
	s := m.Name + "("
	for i, p := range m.Params {
		if i > 0 {
			s += ", "
		}
		if m.Variadic && i == len(m.Params)-1 {
			s += "..." + p.Elem().String()
			continue
		}
		s += p.String()
	}
	return s + ")"
}

// Scope binds an instance to the type its resolution walk starts from.
type Scope struct {
	// Instance is the bound value, always a non-nil pointer to a struct.
	Instance any
	// Base is the address of the instance's struct.
	Base unsafe.Pointer
	// Runtime is the struct type the instance points to.
	Runtime reflect.Type
	// Type is the defining type; Runtime or one of its ancestors.
	Type reflect.Type
}
