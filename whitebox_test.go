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

package whitebox_test

import (
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/whitebox"
	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/internal/fixture"
)

type animal struct {
	a    int64
	legs int
}

type dog struct {
	animal
	a      string
	weight float64
}

type savings struct {
	fixture.Account
	rate float64
}

type pixelRow struct {
	fixture.Pixel
	row int
}

type node struct {
	*animal
	id int
}

type kennel struct {
	size  int
	names []string
}

var kennelLoad = 0.25

func newKennel() *kennel { return &kennel{size: 4} }

type greeter struct {
	last string
}

func (g *greeter) fooInt(v int) string { g.last = "int:" + strconv.Itoa(v); return g.last }
func (g *greeter) fooString(v string) string { g.last = "string:" + v; return g.last }
func (g *greeter) split() (string, int) { return g.last, len(g.last) }
func (g *greeter) refuse() error { return errRefused }

// relay reports the failure of a nested lookup on its own greeter.
func (g *greeter) relay() error {
	_, err := whitebox.MustBind(g).GetByName("absent")
	return err
}

// Last is reachable without registration.
func (g *greeter) Last() string { return g.last }

var errRefused = errors.New("greeter refused")

var (
	dogType     = reflect.TypeOf(dog{})
	animalType  = reflect.TypeOf(animal{})
	kennelType  = reflect.TypeOf(kennel{})
	greeterType = reflect.TypeOf(greeter{})
)

func init() {
	for _, err := range []error{
		whitebox.RegisterConst(kennelType, "Name", "kennel"),
		whitebox.RegisterVar(kennelType, "load", &kennelLoad),
		whitebox.RegisterConstructor(newKennel),
		whitebox.RegisterMethod(greeterType, "foo", (*greeter).fooInt),
		whitebox.RegisterMethod(greeterType, "foo", (*greeter).fooString),
		whitebox.RegisterMethod(greeterType, "split", (*greeter).split),
		whitebox.RegisterMethod(greeterType, "refuse", (*greeter).refuse),
		whitebox.RegisterMethod(greeterType, "relay", (*greeter).relay),
	} {
		if err != nil {
			panic(err)
		}
	}
}

func TestBind_InvalidInstances(t *testing.T) {
	x := 3
	for _, tc := range []struct {
		name     string
		instance any
	}{
		{"untyped nil", nil},
		{"typed nil", (*dog)(nil)},
		{"struct value", dog{}},
		{"pointer to non-struct", &x},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := whitebox.Bind(tc.instance)
			require.Error(t, err)
			assert.ErrorIs(t, err, whitebox.ErrInvalidArgument)

			var we *whitebox.Error
			require.True(t, errors.As(err, &we))
			assert.Equal(t, "Bind", we.Op)
		})
	}
	assert.Panics(t, func() { whitebox.MustBind(nil) })
}

func TestBind_Scope(t *testing.T) {
	d := &dog{}

	h, err := whitebox.Bind(d, animalType)
	require.NoError(t, err)
	assert.Equal(t, animalType, h.Scope().Type)
	assert.Equal(t, dogType, h.Scope().Runtime)

	h, err = whitebox.Bind(d, reflect.TypeOf(&animal{}))
	require.NoError(t, err)
	assert.Equal(t, animalType, h.Scope().Type)

	_, err = whitebox.Bind(d, kennelType)
	require.Error(t, err)
	assert.ErrorIs(t, err, whitebox.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "instance of whitebox_test.dog is not a descendant of whitebox_test.kennel")

	_, err = whitebox.Bind(&node{}, animalType)
	assert.ErrorIs(t, err, whitebox.ErrInvalidArgument)

	_, err = whitebox.Bind(d, animalType, dogType)
	assert.ErrorIs(t, err, whitebox.ErrInvalidArgument)
}

func TestByName_PresentAndAbsent(t *testing.T) {
	h := whitebox.MustBind(&dog{})

	for _, name := range []string{"a", "weight", "legs"} {
		_, err := h.GetByName(name)
		assert.NoError(t, err, name)
	}

	_, err := h.GetByName("tail")
	assert.ErrorIs(t, err, whitebox.ErrNoSuchMember)
	assert.Contains(t, err.Error(), "tail")

	err = h.SetByName("tail", 1)
	assert.ErrorIs(t, err, whitebox.ErrNoSuchMember)
	assert.Equal(t, apis.NoSuchMember, whitebox.KindOf(err))
}

func TestRoundTrip(t *testing.T) {
	h := whitebox.MustBind(&dog{})

	for _, tc := range []struct {
		name  string
		value any
	}{
		{"a", "rex"},
		{"weight", 12.5},
		{"legs", 4},
	} {
		require.NoError(t, h.SetByName(tc.name, tc.value))
		got, err := h.GetByName(tc.name)
		require.NoError(t, err)
		assert.Equal(t, tc.value, got, tc.name)
	}
}

func TestShadowing(t *testing.T) {
	d := &dog{}
	leaf := whitebox.MustBind(d)
	anc := whitebox.MustBind(d, animalType)

	require.NoError(t, leaf.SetByType("X"))
	require.NoError(t, anc.SetByType(int64(5)))

	got, err := leaf.GetByName("a")
	require.NoError(t, err)
	assert.Equal(t, "X", got)

	got, err = anc.GetByName("a")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	assert.Equal(t, "X", d.a)
	assert.Equal(t, int64(5), d.animal.a)
}

func TestByType(t *testing.T) {
	s := &savings{}
	h := whitebox.MustBind(s)

	// Walks up to the private ancestor field.
	require.NoError(t, h.SetByType(int64(99)))
	assert.Equal(t, int64(99), s.ID())

	// Boxed values fill basic fields.
	n := int64(100)
	require.NoError(t, h.SetByType(&n))
	assert.Equal(t, int64(100), s.ID())

	err := h.SetByType(1.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, whitebox.ErrAmbiguousMember)
	var ae *apis.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, []string{"Balance", "rate"}, ae.Candidates)

	err = h.SetByType(true)
	assert.ErrorIs(t, err, whitebox.ErrNoSuchMember)
	assert.Contains(t, err.Error(), "bool")

	assert.ErrorIs(t, h.SetByType(nil), whitebox.ErrInvalidArgument)
	_, err = h.GetByType(reflect.TypeFor[any]())
	assert.ErrorIs(t, err, whitebox.ErrInvalidArgument)

	got, err := h.GetByType(reflect.TypeOf(""))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestPrivateAncestorFields(t *testing.T) {
	s := &savings{Account: *fixture.NewAccount(3, "eve")}

	h := whitebox.MustBind(s)
	for _, m := range h.Fields() {
		assert.NotEqual(t, "id", m.Name)
	}
	id, err := whitebox.Get[int64](h, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	limit := 20
	require.NoError(t, h.SetByName("limit", &limit))
	assert.Equal(t, 20, s.Limit())
	require.NoError(t, h.SetByName("limit", nil))
	assert.Equal(t, -1, s.Limit())

	base := whitebox.MustBind(s, reflect.TypeOf(fixture.Account{}))
	owner, err := whitebox.GetAs[string](base)
	require.NoError(t, err)
	assert.Equal(t, "eve", owner)
}

func TestPlatformAncestorsNeverSurface(t *testing.T) {
	h := whitebox.MustBind(&pixelRow{})
	_, err := h.GetByName("X")
	assert.ErrorIs(t, err, whitebox.ErrNoSuchMember)

	color, err := whitebox.Get[string](h, "color")
	require.NoError(t, err)
	assert.Equal(t, "", color)
}

func TestStaticMembers(t *testing.T) {
	h := whitebox.MustBind(&kennel{})

	err := h.SetByName("Name", "shelter")
	require.Error(t, err)
	assert.ErrorIs(t, err, whitebox.ErrImmutableSharedMember)
	assert.Contains(t, err.Error(), "Name")

	name, err := whitebox.Get[string](h, "Name")
	require.NoError(t, err)
	assert.Equal(t, "kennel", name)

	require.NoError(t, h.SetByType(7))
	size, err := whitebox.Get[int](h, "size")
	require.NoError(t, err)
	assert.Equal(t, 7, size)

	prev := kennelLoad
	t.Cleanup(func() { kennelLoad = prev })
	require.NoError(t, h.SetByType(0.75))
	assert.Equal(t, 0.75, kennelLoad)

	_, err = whitebox.Get[string](h, "size")
	assert.ErrorIs(t, err, whitebox.ErrInvalidArgument)
}

func TestAccessibilityIdempotent(t *testing.T) {
	h := whitebox.MustBind(&kennel{})

	for _, tc := range []struct {
		name string
		op   func() error
	}{
		{"size", func() error { return h.SetByName("size", 2) }},
		{"size", func() error { return h.SetByName("size", "two") }},
		{"Name", func() error { return h.SetByName("Name", "x") }},
		{"Name", func() error { _, err := h.GetByName("Name"); return err }},
		{"load", func() error { _, err := h.GetByName("load"); return err }},
	} {
		before, err := h.Accessible(tc.name)
		require.NoError(t, err)
		_ = tc.op()
		after, err := h.Accessible(tc.name)
		require.NoError(t, err)
		assert.Equal(t, before, after, tc.name)
	}

	ok, err := h.Accessible("size")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = h.Accessible("load")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = h.Accessible("Name")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvoke_Overloads(t *testing.T) {
	g := &greeter{}
	h := whitebox.MustBind(g)

	out, err := h.Invoke("foo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "string:hi", out)

	out, err = h.Invoke("foo", 3)
	require.NoError(t, err)
	assert.Equal(t, "int:3", out)

	_, err = h.Invoke("foo", 3.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, whitebox.ErrNoSuchMember)
	assert.Contains(t, err.Error(), "foo")

	out, err = h.Invoke("split")
	require.NoError(t, err)
	assert.Equal(t, []any{"int:3", 5}, out)

	out, err = h.Invoke("Last")
	require.NoError(t, err)
	assert.Equal(t, "int:3", out)

	_, err = h.Invoke("missing")
	assert.ErrorIs(t, err, whitebox.ErrNoSuchMember)
}

func TestInvoke_FailurePreservesCause(t *testing.T) {
	h := whitebox.MustBind(&greeter{})

	_, err := h.Invoke("refuse")
	require.Error(t, err)
	assert.ErrorIs(t, err, whitebox.ErrInvokedMemberFailure)
	assert.ErrorIs(t, err, errRefused)
	assert.NotErrorIs(t, err, whitebox.ErrNoSuchMember)

	var we *whitebox.Error
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "Invoke", we.Op)
}

func TestInvoke_NestedFacadeErrorStaysCause(t *testing.T) {
	_, err := whitebox.MustBind(&greeter{}).Invoke("relay")
	require.Error(t, err)

	we, ok := err.(*whitebox.Error)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, "Invoke", we.Op)
	assert.Equal(t, apis.InvokedMemberFailure, whitebox.KindOf(err))
	assert.ErrorIs(t, err, whitebox.ErrInvokedMemberFailure)
	assert.ErrorIs(t, err, whitebox.ErrNoSuchMember)
}

func TestInvoke_AncestorMethodsNeedScope(t *testing.T) {
	s := &savings{}

	_, err := whitebox.MustBind(s).Invoke("Deposit", 5.0)
	assert.ErrorIs(t, err, whitebox.ErrNoSuchMember)
	assert.Zero(t, s.Balance)

	out, err := whitebox.MustBind(s, reflect.TypeOf(fixture.Account{})).Invoke("Deposit", 5.0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, out)
	assert.Equal(t, 5.0, s.Balance)
}

func TestInstantiate(t *testing.T) {
	k, err := whitebox.New[*kennel]()
	require.NoError(t, err)
	assert.Equal(t, 4, k.size)

	v, err := whitebox.InstantiateDefault(kennelType)
	require.NoError(t, err)
	assert.Equal(t, kennel{size: 4}, v)

	_, err = whitebox.New[dog]()
	require.Error(t, err)
	assert.ErrorIs(t, err, whitebox.ErrCannotInstantiate)
	assert.Contains(t, err.Error(), "whitebox_test.dog")

	_, err = whitebox.InstantiateDefault(reflect.TypeFor[fmt.Stringer]())
	assert.ErrorIs(t, err, whitebox.ErrCannotInstantiate)
}

func TestDump(t *testing.T) {
	h := whitebox.MustBind(&dog{a: "rex", weight: 3.5})
	out, err := h.Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "whitebox_test.dog.a string = rex")
	assert.Contains(t, out, "whitebox_test.dog.weight float64 = 3.5")
	assert.Contains(t, out, "whitebox_test.animal.legs int = 0")
}
