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

package registry_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/config"
	"dirpx.dev/whitebox/registry"
)

// A few named types to avoid anonymous/unnamed pitfalls.
type C0 struct{}
type C1 struct{}
type C2 struct{}
type C3 struct{}
type C4 struct{}

var shared [5]int

// TestConcurrentRegisterAndLookup verifies that registration and lookups
// are race-free and consistent under concurrent use.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	types := []reflect.Type{
		reflect.TypeOf(C0{}), reflect.TypeOf(C1{}), reflect.TypeOf(C2{}),
		reflect.TypeOf(C3{}), reflect.TypeOf(C4{}),
	}

	// Register once (sequential) to establish baseline.
	for i, tt := range types {
		if err := reg.RegisterVar(tt, "shared", &shared[i]); err != nil {
			t.Fatalf("register %s: %v", tt, err)
		}
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				tt := types[i%len(types)]
				if got := reg.Statics(tt); len(got) != 1 {
					t.Errorf("statics for %v: got %d entries", tt, len(got))
					return
				}
				_ = reg.Count()
				_ = reg.Entries()
			}
		}()
	}

	// Writers (idempotent re-register)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				j := (i + id) % len(types)
				_ = reg.RegisterVar(types[j], "shared", &shared[j]) // must be safe & idempotent
			}
		}(w)
	}

	wg.Wait()

	// Final consistency checks.
	if reg.Count() != len(types) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(types))
	}
	for _, e := range reg.Entries() {
		if e.Kind != apis.EntryVar || e.Name != "shared" {
			t.Fatalf("unexpected entry %+v", e)
		}
	}
}

// TestResetSnapshot ensures Reset is safe and Entries returns a stable snapshot.
func TestResetSnapshot(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	_ = reg.RegisterVar(reflect.TypeOf(C0{}), "shared", &shared[0])
	_ = reg.RegisterVar(reflect.TypeOf(C1{}), "shared", &shared[1])

	snap := reg.Entries() // snapshot copy expected
	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("count after reset: got %d want 0", reg.Count())
	}
	if len(snap) != 2 {
		t.Fatalf("snapshot length changed unexpectedly: %d", len(snap))
	}
	if snap[0].Name == "" || snap[1].Name == "" {
		t.Fatalf("snapshot contents invalid after reset")
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Registry = registry.New(config.DefaultConfig())

// TestConcurrentResetAndLookup runs Reset against readers and writers;
// run with -race.
func TestConcurrentResetAndLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	tt := reflect.TypeOf(C0{})

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 2

	wg.Add(workers * 2)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				if got := len(reg.Statics(tt)); got > 1 {
					t.Errorf("statics for %v: got %d entries", tt, got)
					return
				}
				_ = reg.Entries()
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				_ = reg.RegisterVar(tt, "shared", &shared[0])
				if i%100 == 0 {
					reg.Reset()
				}
			}
		}()
	}
	wg.Wait()

	reg.Reset()
	if reg.Count() != 0 || len(reg.Entries()) != 0 {
		t.Fatalf("after Reset: Count() = %d, Entries = %d", reg.Count(), len(reg.Entries()))
	}
}
