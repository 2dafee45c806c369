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

// Package guard grants scoped access to members that ordinary reflection
// refuses to read or write, and guarantees the grant is revoked afterward.
//
// Acquire hands out a Token holding a settable alias to the member's storage.
// Callers defer Release so the alias is revoked on every exit path:
//
//	tok, err := guard.Acquire(m, base, true)
//	if err != nil {
//		return err
//	}
//	defer tok.Release()
//	return tok.Set(v)
package guard

import (
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/primitive"
)

// Token is an access elevation for one member, owned by the call that acquired it.
// It is not safe for concurrent use.
type Token struct {
	member   apis.Member
	write    bool
	prior    bool
	alias    reflect.Value
	released bool
}

// Acquire elevates access to m. base is the address of the struct that declares
// m directly and is ignored for static members. A write to a constant fails
// with ImmutableSharedMember before anything is elevated.
func Acquire(m apis.Member, base unsafe.Pointer, write bool) (*Token, error) {
	if write && m.IsConstant() {
		return nil, apis.ImmutableMember(m)
	}
	tok := &Token{member: m, write: write, prior: Accessible(m)}
	switch {
	case m.Static != nil && m.Static.Final:
		tok.alias = m.Static.Value
	case m.Static != nil:
		tok.alias = m.Static.Ptr.Elem()
	case base == nil:
		return nil, apis.Invalid(m.Name, "cannot access field %s without an instance", m)
	default:
		tok.alias = reflect.NewAt(m.Type, xunsafe.NewField(m.Field).Pointer(base)).Elem()
	}
	return tok, nil
}

// Accessible reports whether ordinary reflection can read and write m:
// exported fields and registered variables can, constants and unexported fields cannot.
func Accessible(m apis.Member) bool {
	if m.IsConstant() {
		return false
	}
	if m.IsStatic() {
		return true
	}
	return m.Modifiers.Exported
}

// Member returns the member the token was acquired for.
func (t *Token) Member() apis.Member { return t.member }

// Prior returns the accessibility m had when the token was acquired.
func (t *Token) Prior() bool { return t.prior }

// Elevated reports whether the token still holds its alias.
func (t *Token) Elevated() bool { return !t.released }

// Value returns the member's current value.
func (t *Token) Value() (any, error) {
	if t.released {
		return nil, apis.Invalid(t.member.Name, "access to %s was already released", t.member)
	}
	return t.alias.Interface(), nil
}

// Set stores v into the member. v may be assignable to the declared type, a
// boxed value for a basic declared type, or an untyped nil for a nilable one.
func (t *Token) Set(v any) error {
	if t.released {
		return apis.Invalid(t.member.Name, "access to %s was already released", t.member)
	}
	if !t.write {
		return apis.Invalid(t.member.Name, "access to %s was acquired read-only", t.member)
	}
	cv, ok := primitive.Coerce(t.member.Type, reflect.ValueOf(v))
	if !ok {
		return apis.Invalid(t.member.Name, "cannot set %s field %s to %s",
			t.member.Type, t.member.Name, apis.TypeName(reflect.TypeOf(v)))
	}
	t.alias.Set(cv)
	return nil
}

// Release revokes the alias. Releasing twice is a no-op.
func (t *Token) Release() {
	if t.released {
		return
	}
	t.alias = reflect.Value{}
	t.released = true
}
