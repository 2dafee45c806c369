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

package registry

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/config"
	uref "dirpx.dev/whitebox/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("whitebox(registry): nil reflect.Type provided")
	// ErrNotStruct is returned when an owner is not a struct or a pointer to one.
	ErrNotStruct = errors.New("whitebox(registry): owner is not a struct type")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("whitebox(registry): empty name provided")
	// ErrNilValue is returned when a nil pointer, constant or function is provided.
	ErrNilValue = errors.New("whitebox(registry): nil value provided")
	// ErrNotPointer is returned when a variable is not registered through a pointer.
	ErrNotPointer = errors.New("whitebox(registry): variable must be registered by pointer")
	// ErrBadSignature is returned when a constructor or method has an unusable shape.
	ErrBadSignature = errors.New("whitebox(registry): unsupported function signature")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a member or constructor with a different value.
	ErrConflictingRegistration = errors.New("whitebox(registry): conflicting registration")
)

var errorType = reflect.TypeFor[error]()

// New constructs a Registry that normalizes owners according to cfg.
// Only MaxDepth is used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	r := &registry{cfg: cfg}
	r.m.Store(new(sync.Map))
	return r
}

// registry is a simple Registry implementation backed by sync.Map.
// Buckets are immutable once stored; writers replace them under mu.
type registry struct {
	// cfg is the configuration used for owner normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps an owner reflect.Type to its *bucket.
	// Reset swaps in a fresh map, so readers load it atomically.
	m atomic.Pointer[sync.Map]
	// count tracks the number of registered entries.
	count int
}

// bucket holds everything registered for one owner.
type bucket struct {
	statics []apis.StaticEntry
	ctor    reflect.Value
	ctorFn  any
	methods []apis.MethodEntry
}

// clone returns a shallow copy that can be modified before publication.
func (b *bucket) clone() *bucket {
	if b == nil {
		return &bucket{}
	}
	return &bucket{
		statics: append([]apis.StaticEntry(nil), b.statics...),
		ctor:    b.ctor,
		ctorFn:  b.ctorFn,
		methods: append([]apis.MethodEntry(nil), b.methods...),
	}
}

// owner normalizes t to a struct type.
func (r *registry) owner(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	o, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil, errors.Wrapf(ErrNotStruct, "%s", t)
	}
	return o, nil
}

// load returns the published bucket for owner, or nil.
func (r *registry) load(owner reflect.Type) *bucket {
	if v, ok := r.m.Load().Load(owner); ok {
		return v.(*bucket)
	}
	return nil
}

// RegisterVar associates the package variable behind ptr with owner under name.
func (r *registry) RegisterVar(owner reflect.Type, name string, ptr any) error {
	o, err := r.owner(owner)
	if err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}
	if ptr == nil {
		return ErrNilValue
	}
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Ptr {
		return errors.Wrapf(ErrNotPointer, "%s.%s", o, name)
	}
	if pv.IsNil() {
		return ErrNilValue
	}
	entry := apis.StaticEntry{Owner: o, Name: name, Type: pv.Type().Elem(), Ptr: pv}
	return r.storeStatic(entry, func(old apis.StaticEntry) bool {
		return !old.Final && old.Ptr.Pointer() == pv.Pointer()
	})
}

// RegisterConst associates a constant value with owner under name.
func (r *registry) RegisterConst(owner reflect.Type, name string, value any) error {
	o, err := r.owner(owner)
	if err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}
	if value == nil {
		return ErrNilValue
	}
	v := reflect.ValueOf(value)
	entry := apis.StaticEntry{Owner: o, Name: name, Type: v.Type(), Final: true, Value: v}
	return r.storeStatic(entry, func(old apis.StaticEntry) bool {
		return old.Final && old.Type == v.Type() && v.Comparable() && old.Value.Equal(v)
	})
}

// storeStatic publishes entry unless its name collides with a struct field or a
// different static member. same reports whether an existing entry is identical.
func (r *registry) storeStatic(entry apis.StaticEntry, same func(apis.StaticEntry) bool) error {
	for i := 0; i < entry.Owner.NumField(); i++ {
		if entry.Owner.Field(i).Name == entry.Name {
			return errors.Wrapf(ErrConflictingRegistration, "%s.%s is a field", entry.Owner, entry.Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.load(entry.Owner)
	if b != nil {
		for _, old := range b.statics {
			if old.Name != entry.Name {
				continue
			}
			if same(old) {
				return nil // idempotent re-registration
			}
			return errors.Wrapf(ErrConflictingRegistration, "%s.%s", entry.Owner, entry.Name)
		}
	}
	nb := b.clone()
	nb.statics = append(nb.statics, entry)
	r.m.Load().Store(entry.Owner, nb)
	r.count++
	return nil
}

// RegisterConstructor records fn as the zero-argument constructor of the type it produces.
// Accepted shapes: func() T, func() *T, func() (T, error), func() (*T, error).
func (r *registry) RegisterConstructor(fn any) error {
	if fn == nil {
		return ErrNilValue
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func || fv.IsNil() {
		return errors.Wrapf(ErrBadSignature, "constructor %s", ft)
	}
	if ft.NumIn() != 0 || ft.IsVariadic() {
		return errors.Wrapf(ErrBadSignature, "constructor %s must take no arguments", ft)
	}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return errors.Wrapf(ErrBadSignature, "constructor %s: second result must be error", ft)
		}
	default:
		return errors.Wrapf(ErrBadSignature, "constructor %s must return one value and an optional error", ft)
	}
	o, err := r.owner(ft.Out(0))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.load(o)
	if b != nil && b.ctor.IsValid() {
		if b.ctor.Pointer() == fv.Pointer() {
			return nil
		}
		return errors.Wrapf(ErrConflictingRegistration, "constructor of %s", o)
	}
	nb := b.clone()
	nb.ctor = fv
	nb.ctorFn = fn
	r.m.Load().Store(o, nb)
	r.count++
	return nil
}

// RegisterMethod records fn as a method named name declared for owner.
// fn's first parameter must be owner or a pointer to owner. Overloads under one
// name must have distinct function types.
func (r *registry) RegisterMethod(owner reflect.Type, name string, fn any) error {
	o, err := r.owner(owner)
	if err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilValue
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func || fv.IsNil() {
		return errors.Wrapf(ErrBadSignature, "method %s.%s: %s", o, name, ft)
	}
	if ft.NumIn() == 0 || (ft.In(0) != o && ft.In(0) != reflect.PointerTo(o)) {
		return errors.Wrapf(ErrBadSignature, "method %s.%s: first parameter must be the receiver", o, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.load(o)
	if b != nil {
		for _, old := range b.methods {
			if old.Name != name || old.Func.Type() != ft {
				continue
			}
			if old.Func.Pointer() == fv.Pointer() {
				return nil // idempotent re-registration
			}
			// Overloads must differ in signature.
			return errors.Wrapf(ErrConflictingRegistration, "method %s.%s: %s already registered", o, name, ft)
		}
	}
	nb := b.clone()
	nb.methods = append(nb.methods, apis.MethodEntry{Owner: o, Name: name, Func: fv})
	r.m.Load().Store(o, nb)
	r.count++
	return nil
}

// Statics returns the static members declared for exactly owner.
func (r *registry) Statics(owner reflect.Type) []apis.StaticEntry {
	if owner == nil {
		return nil
	}
	if b := r.load(owner); b != nil {
		return append([]apis.StaticEntry(nil), b.statics...)
	}
	return nil
}

// Constructor returns the constructor declared for exactly owner.
func (r *registry) Constructor(owner reflect.Type) (reflect.Value, bool) {
	if owner == nil {
		return reflect.Value{}, false
	}
	if b := r.load(owner); b != nil && b.ctor.IsValid() {
		return b.ctor, true
	}
	return reflect.Value{}, false
}

// Methods returns the methods registered for exactly owner.
func (r *registry) Methods(owner reflect.Type) []apis.MethodEntry {
	if owner == nil {
		return nil
	}
	if b := r.load(owner); b != nil {
		return append([]apis.MethodEntry(nil), b.methods...)
	}
	return nil
}

// Entries returns a snapshot for diagnostics and migration (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Load().Range(func(key, value any) bool {
		owner := key.(reflect.Type)
		b := value.(*bucket)
		for _, s := range b.statics {
			if s.Final {
				entries = append(entries, apis.Entry{Kind: apis.EntryConst, Owner: owner, Name: s.Name, Value: s.Value.Interface()})
				continue
			}
			entries = append(entries, apis.Entry{Kind: apis.EntryVar, Owner: owner, Name: s.Name, Value: s.Ptr.Interface()})
		}
		if b.ctor.IsValid() {
			entries = append(entries, apis.Entry{Kind: apis.EntryConstructor, Owner: owner, Value: b.ctorFn})
		}
		for _, m := range b.methods {
			entries = append(entries, apis.Entry{Kind: apis.EntryMethod, Owner: owner, Name: m.Name, Value: m.Func.Interface()})
		}
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Store(new(sync.Map))
	r.count = 0
}

// Replay registers every entry into reg. It is used when a registry is rebuilt.
func Replay(reg apis.Registry, entries []apis.Entry) {
	for _, e := range entries {
		switch e.Kind {
		case apis.EntryVar:
			_ = reg.RegisterVar(e.Owner, e.Name, e.Value)
		case apis.EntryConst:
			_ = reg.RegisterConst(e.Owner, e.Name, e.Value)
		case apis.EntryConstructor:
			_ = reg.RegisterConstructor(e.Value)
		case apis.EntryMethod:
			_ = reg.RegisterMethod(e.Owner, e.Name, e.Value)
		}
	}
}
