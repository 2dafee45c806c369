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

package builder_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/builder"
	"dirpx.dev/whitebox/config"
	"dirpx.dev/whitebox/registry"
)

// userType carries an unexported field and methods registered under one name.
type userType struct {
	hits int
}

func (u *userType) hit() int { u.hits++; return u.hits }
func (u *userType) hitBy(n int) int { u.hits += n; return u.hits }
func (u *userType) Hits() int { return u.hits }
func newUserType() *userType { return &userType{} }

var userLimit = 3

const userKind = "user"

// TestBuildRegistry_Basic asserts that BuildRegistry returns a non-nil,
// working Registry that supports Register/Entries/Count.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	// prev may be nil; this must still produce a valid registry.
	reg := b.BuildRegistry(config.DefaultConfig(), nil)
	if reg == nil {
		t.Fatal("BuildRegistry returned nil")
	}

	tt := reflect.TypeOf(userType{})
	if err := reg.RegisterVar(tt, "limit", &userLimit); err != nil {
		t.Fatalf("RegisterVar failed: %v", err)
	}
	if got := reg.Statics(tt); len(got) != 1 || got[0].Name != "limit" {
		t.Fatalf("Statics mismatch: got %+v", got)
	}
	if c := reg.Count(); c != 1 {
		t.Fatalf("Count mismatch: got %d want 1", c)
	}
}

// TestBuildRegistry_MigratesEntries asserts that every kind of entry survives a rebuild.
func TestBuildRegistry_MigratesEntries(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	tt := reflect.TypeOf(userType{})

	prev := b.BuildRegistry(cfg, nil)
	mustNoErr(t, prev.RegisterVar(tt, "limit", &userLimit))
	mustNoErr(t, prev.RegisterConst(tt, "kind", userKind))
	mustNoErr(t, prev.RegisterConstructor(newUserType))
	mustNoErr(t, prev.RegisterMethod(tt, "hit", (*userType).hit))
	mustNoErr(t, prev.RegisterMethod(tt, "hit", (*userType).hitBy))

	next := b.BuildRegistry(config.NewConfig(config.WithMaxDepth(4)), prev)
	if next == prev {
		t.Fatal("BuildRegistry must return a fresh registry")
	}
	if got, want := next.Count(), prev.Count(); got != want {
		t.Fatalf("Count after migration: got %d want %d", got, want)
	}
	if _, ok := next.Constructor(tt); !ok {
		t.Fatal("constructor was not migrated")
	}
	if got := len(next.Methods(tt)); got != 2 {
		t.Fatalf("methods after migration: got %d want 2", got)
	}
	if got := len(next.Statics(tt)); got != 2 {
		t.Fatalf("statics after migration: got %d want 2", got)
	}
}

// TestBuildResolver_RegistryThenReflect verifies candidate priority:
// 1. Methods registered in the Registry.
// 2. Otherwise, the exported methods reflection reports.
func TestBuildResolver_RegistryThenReflect(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	tt := reflect.TypeOf(userType{})

	reg := b.BuildRegistry(cfg, nil)
	mustNoErr(t, reg.RegisterMethod(tt, "hit", (*userType).hit))
	mustNoErr(t, reg.RegisterMethod(tt, "hit", (*userType).hitBy))

	res, err := b.BuildResolver(cfg, reg, nil)
	if err != nil || res == nil {
		t.Fatalf("BuildResolver = (%v,%v), want resolver", res, err)
	}

	// (1) Registered overloads.
	m, err := res.Method(tt, "hit", []reflect.Type{reflect.TypeOf(0)})
	if err != nil {
		t.Fatalf("Method(hit, int): %v", err)
	}
	if !m.Registered || len(m.Params) != 1 {
		t.Fatalf("Method(hit, int) picked %s", m.Signature())
	}

	// (2) Reflect fallback.
	m, err = res.Method(tt, "Hits", nil)
	if err != nil {
		t.Fatalf("Method(Hits): %v", err)
	}
	if m.Registered {
		t.Fatal("Hits should come from the method set")
	}

	// Fields are resolved regardless of strategies.
	f, err := res.FieldByName(tt, "hits")
	if err != nil || f.Owner != tt {
		t.Fatalf("FieldByName(hits) = (%v,%v)", f, err)
	}
}

// TestBuildResolver_InvalidConfig asserts that uncompilable platform patterns are reported.
func TestBuildResolver_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig(config.WithPlatformPatterns("[unterminated"))
	res, err := builder.New().BuildResolver(cfg, registry.New(cfg), nil)
	if err == nil || res != nil {
		t.Fatalf("BuildResolver = (%v,%v), want error", res, err)
	}
}

// TestBuildResolver_Concurrency_Smoke hammers the resolver in parallel to ensure
// it is safe to call FieldByName/FieldByType/Method concurrently after being built.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	tt := reflect.TypeOf(userType{})

	reg := b.BuildRegistry(cfg, nil)
	mustNoErr(t, reg.RegisterVar(tt, "limit", &userLimit))
	mustNoErr(t, reg.RegisterMethod(tt, "hit", (*userType).hit))

	res, err := b.BuildResolver(cfg, reg, nil)
	if err != nil {
		t.Fatalf("BuildResolver: %v", err)
	}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				switch (i + id) % 3 {
				case 0:
					if _, err := res.FieldByName(tt, "limit"); err != nil {
						t.Errorf("FieldByName(limit): %v", err)
						return
					}
				case 1:
					if _, err := res.FieldByType(tt, reflect.TypeOf(0)); err == nil {
						t.Error("FieldByType(int) should be ambiguous")
						return
					}
				default:
					if _, err := res.Method(tt, "hit", nil); err != nil {
						t.Errorf("Method(hit): %v", err)
						return
					}
				}
			}
		}(w)
	}

	wg.Wait()
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
