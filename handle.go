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

package whitebox

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"unsafe"

	"github.com/davecgh/go-spew/spew"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/config"
	"dirpx.dev/whitebox/guard"
	uref "dirpx.dev/whitebox/utils/reflect"
)

// Handle binds an instance to the type its lookups start from.
// It captures the global snapshot at bind time and is not safe for
// concurrent use on the same instance.
type Handle struct {
	scope apis.Scope
	cfg   apis.Config
	res   apis.Resolver
	log   *slog.Logger
}

// dumper renders values for Dump.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Bind returns a Handle for instance, which must be a non-nil pointer to a struct.
// An optional scope names the defining type lookups start from: the instance's
// own type (the default) or one of its ancestors, given as T or *T.
func Bind(instance any, scope ...reflect.Type) (*Handle, error) {
	s := st.Load()
	h, err := bind(s, instance, scope)
	if err != nil {
		return nil, wrap("Bind", err)
	}
	h.log.Debug("bound", "scope", h.scope.Type, "type", h.scope.Runtime)
	return h, nil
}

// MustBind is like Bind but panics on error.
func MustBind(instance any, scope ...reflect.Type) *Handle {
	h, err := Bind(instance, scope...)
	if err != nil {
		panic(err)
	}
	return h
}

func bind(s *state, instance any, scope []reflect.Type) (*Handle, error) {
	runtime, base, err := uref.Instance(instance)
	if err != nil {
		e := apis.Invalid(fmt.Sprintf("%T", instance), "cannot bind %T: instance must be a non-nil pointer to a struct", instance)
		e.Cause = err
		return nil, e
	}
	if len(scope) > 1 {
		return nil, apis.Invalid(runtime.String(), "at most one scope may be given, got %d", len(scope))
	}
	defining := runtime
	if len(scope) == 1 {
		defining = scope[0]
		if defining != nil && defining.Kind() == reflect.Ptr {
			defining = defining.Elem()
		}
		if _, ok := uref.DepthOf(runtime, defining, s.cfg.MaxDepth); !ok {
			return nil, apis.Invalid(apis.TypeName(defining), "instance of %s is not a descendant of %s",
				runtime, apis.TypeName(defining))
		}
	}
	at, err := uref.Locate(base, runtime, defining, s.cfg.MaxDepth)
	if err != nil {
		e := apis.Invalid(defining.String(), "cannot reach %s in instance of %s", defining, runtime)
		e.Cause = err
		return nil, e
	}
	return &Handle{
		scope: apis.Scope{Instance: instance, Base: at, Runtime: runtime, Type: defining},
		cfg:   s.cfg,
		res:   s.res,
		log:   config.Logger(s.cfg),
	}, nil
}

// Scope returns the bound instance and its defining type.
func (h *Handle) Scope() apis.Scope { return h.scope }

// Fields returns the members visible at the handle's scope, ordered by name and type.
func (h *Handle) Fields() []apis.Member { return h.res.Fields(h.scope.Type) }

// SetByName stores v into the field named name.
func (h *Handle) SetByName(name string, v any) error {
	m, err := h.res.FieldByName(h.scope.Type, name)
	if err != nil {
		return wrap("SetByName", err)
	}
	return wrap("SetByName", h.set(m, v))
}

// SetByType stores v into the single field whose declared type accepts v.
func (h *Handle) SetByType(v any) error {
	if v == nil {
		return wrap("SetByType", apis.Invalid("<nil>", "cannot find field for untyped nil, must specify it by name"))
	}
	m, err := h.res.FieldByType(h.scope.Type, reflect.TypeOf(v))
	if err != nil {
		return wrap("SetByType", err)
	}
	return wrap("SetByType", h.set(m, v))
}

// GetByName returns the value of the field named name.
func (h *Handle) GetByName(name string) (any, error) {
	m, err := h.res.FieldByName(h.scope.Type, name)
	if err != nil {
		return nil, wrap("GetByName", err)
	}
	v, err := h.get(m)
	return v, wrap("GetByName", err)
}

// GetByType returns the value of the single field whose declared type accepts t.
func (h *Handle) GetByType(t reflect.Type) (any, error) {
	m, err := h.res.FieldByType(h.scope.Type, t)
	if err != nil {
		return nil, wrap("GetByType", err)
	}
	v, err := h.get(m)
	return v, wrap("GetByType", err)
}

// Accessible reports whether ordinary reflection could read and write the field named name.
func (h *Handle) Accessible(name string) (bool, error) {
	m, err := h.res.FieldByName(h.scope.Type, name)
	if err != nil {
		return false, wrap("Accessible", err)
	}
	return guard.Accessible(m), nil
}

// Invoke calls the method named name with args and returns its results:
// nil for none, the value for one, a []any for several. A trailing error
// result is reported as the call's error. Untyped nil arguments match
// nilable parameters.
func (h *Handle) Invoke(name string, args ...any) (any, error) {
	types := make([]reflect.Type, len(args))
	for i, a := range args {
		types[i] = reflect.TypeOf(a)
	}
	m, err := h.res.Method(h.scope.Type, name, types)
	if err != nil {
		return nil, wrap("Invoke", err)
	}
	out, err := guard.Call(m, h.scope.Base, args)
	if err != nil {
		h.log.Debug("invocation failed", "scope", h.scope.Type, "name", name, "error", err)
	}
	return out, wrap("Invoke", err)
}

// Dump renders every visible member and its current value, one per line.
func (h *Handle) Dump() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (scope %s)\n", h.scope.Runtime, h.scope.Type)
	for _, m := range h.Fields() {
		v, err := h.get(m)
		if err != nil {
			return "", wrap("Dump", err)
		}
		fmt.Fprintf(&b, "  %s %s = %s\n", m, m.Type, dumper.Sprintf("%+v", v))
	}
	return b.String(), nil
}

// base returns the address of the struct declaring m, or nil for static members.
func (h *Handle) base(m apis.Member) (unsafe.Pointer, error) {
	if m.IsStatic() {
		return nil, nil
	}
	p, err := uref.Locate(h.scope.Base, h.scope.Type, m.Owner, h.cfg.MaxDepth)
	if err != nil {
		e := apis.Invalid(m.Name, "cannot reach field %s", m)
		e.Cause = err
		return nil, e
	}
	return p, nil
}

func (h *Handle) set(m apis.Member, v any) error {
	if m.IsConstant() {
		return apis.ImmutableMember(m)
	}
	base, err := h.base(m)
	if err != nil {
		return err
	}
	tok, err := guard.Acquire(m, base, true)
	if err != nil {
		return err
	}
	defer tok.Release()
	return tok.Set(v)
}

func (h *Handle) get(m apis.Member) (any, error) {
	base, err := h.base(m)
	if err != nil {
		return nil, err
	}
	tok, err := guard.Acquire(m, base, false)
	if err != nil {
		return nil, err
	}
	defer tok.Release()
	return tok.Value()
}
