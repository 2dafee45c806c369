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

import "reflect"

// Registry records what Go reflection cannot discover on its own: package-level
// variables and constants that belong to a type, constructors, and methods
// (including unexported ones registered as method expressions).
// Implementations must be safe for concurrent use.
type Registry interface {
	// RegisterVar associates the package variable behind ptr with owner under name.
	// The member is static and writable.
	RegisterVar(owner reflect.Type, name string, ptr any) error
	// RegisterConst associates a constant value with owner under name.
	// The member is static and final.
	RegisterConst(owner reflect.Type, name string, value any) error
	// RegisterConstructor records fn as the zero-argument constructor of the type it produces.
	RegisterConstructor(fn any) error
	// RegisterMethod records fn as a method named name declared for owner.
	// fn's first parameter is the receiver. Several functions may share a name.
	RegisterMethod(owner reflect.Type, name string, fn any) error

	// Statics returns the static members declared for exactly owner.
	Statics(owner reflect.Type) []StaticEntry
	// Constructor returns the constructor declared for exactly owner.
	Constructor(owner reflect.Type) (reflect.Value, bool)
	// Methods returns the methods registered for exactly owner.
	Methods(owner reflect.Type) []MethodEntry

	// Entries returns a snapshot for diagnostics and migration (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// EntryKind tells which registration produced an Entry.
type EntryKind int

const (
	// EntryVar is a static variable.
	EntryVar EntryKind = iota
	// EntryConst is a static constant.
	EntryConst
	// EntryConstructor is a zero-argument constructor.
	EntryConstructor
	// EntryMethod is a registered method.
	EntryMethod
)

// Entry is a single registration in a Registry snapshot.
type Entry struct {
	// Kind is the registration kind.
	Kind EntryKind
	// Owner is the type the entry belongs to.
	Owner reflect.Type
	// Name is the member name. Empty for constructors.
	Name string
	// Value is the registered pointer, constant or function.
	Value any
}

// StaticEntry is a static member registered for a type.
type StaticEntry struct {
	// Owner is the declaring type.
	Owner reflect.Type
	// Name is the member name.
	Name string
	// Type is the declared type of the member.
	Type reflect.Type
	// Final reports whether the member is a constant.
	Final bool
	// Ptr points at the variable storage. Invalid for constants.
	Ptr reflect.Value
	// Value holds the constant. Invalid for variables.
	Value reflect.Value
}

// MethodEntry is a registered method function.
type MethodEntry struct {
	// Owner is the declaring type.
	Owner reflect.Type
	// Name is the method name.
	Name string
	// Func is the function; its first input is the receiver.
	Func reflect.Value
}
