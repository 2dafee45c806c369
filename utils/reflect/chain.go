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

package reflect

import (
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/viant/xunsafe"
)

// Super returns the supertype link of t: its first embedded field whose type is
// a struct or a pointer to a struct. The returned type is the struct itself.
func Super(t reflect.Type) (reflect.StructField, reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Struct {
		return reflect.StructField{}, nil, false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			return f, ft, true
		}
	}
	return reflect.StructField{}, nil, false
}

// Chain returns start followed by its ancestors, nearest first.
// The walk stops at the root, after maxDepth links, or before the first
// ancestor for which stop returns true. start itself is never stopped.
func Chain(start reflect.Type, maxDepth int, stop func(reflect.Type) bool) []reflect.Type {
	if start == nil {
		return nil
	}
	out := []reflect.Type{start}
	seen := map[reflect.Type]bool{start: true}
	t := start
	for depth := 0; depth < maxDepth; depth++ {
		_, st, ok := Super(t)
		if !ok || seen[st] {
			break
		}
		if stop != nil && stop(st) {
			break
		}
		out = append(out, st)
		seen[st] = true
		t = st
	}
	return out
}

// DepthOf returns how many supertype links separate desc from anc.
// It reports false when anc is not desc or one of its ancestors.
func DepthOf(desc, anc reflect.Type, maxDepth int) (int, bool) {
	for i, t := range Chain(desc, maxDepth, nil) {
		if t == anc {
			return i, true
		}
	}
	return 0, false
}

// Locate returns the address of the ancestor to embedded (directly or through
// further ancestors) in the struct of type from stored at base.
// Embedded pointers are followed; a nil one yields ErrReflectNilAncestor.
func Locate(base unsafe.Pointer, from, to reflect.Type, maxDepth int) (unsafe.Pointer, error) {
	ptr := base
	t := from
	for depth := 0; t != to; depth++ {
		if depth >= maxDepth {
			return nil, errors.Wrapf(ErrReflectNotAncestor, "%s is not an ancestor of %s", to, from)
		}
		link, st, ok := Super(t)
		if !ok {
			return nil, errors.Wrapf(ErrReflectNotAncestor, "%s is not an ancestor of %s", to, from)
		}
		ptr = xunsafe.NewField(link).Pointer(ptr)
		if link.Type.Kind() == reflect.Ptr {
			ptr = xunsafe.DerefPointer(ptr)
			if ptr == nil {
				return nil, errors.Wrapf(ErrReflectNilAncestor, "%s.%s is nil", t, link.Name)
			}
		}
		t = st
	}
	return ptr, nil
}
