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
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/builder"
	"dirpx.dev/whitebox/config"
)

// init initializes the global state.
func init() {
	// Initialize state with default cfg, reg, and res.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil)
	res, err := b.BuildResolver(s.cfg, s.reg, nil)
	if err != nil {
		panic(err)
	}
	s.res = res
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("whitebox: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("whitebox: builder returned nil resolver")
)

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged. A nil reg or res
// is rebuilt by the (possibly new) builder and becomes unpinned; a non-nil one
// is pinned.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg)
	} else {
		npreg = true
	}

	// Resolver
	nres := res
	npres := false
	if nres == nil {
		var err error
		if nres, err = nbld.BuildResolver(ncfg, nreg, old.res); err != nil {
			return err
		}
	} else {
		npres = true
	}

	return publish(&state{cfg: ncfg, reg: nreg, res: nres, bld: nbld, preg: npreg, pres: npres})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg.
// It rebuilds the non-pinned registry and resolver using the new configuration.
func SetConfig(cfg apis.Config) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.cfg = cfg
	if err := rebuild(&next, old); err != nil {
		return err
	}
	return publish(&next)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets and pins the global registry.
// The resolver is rebuilt against it unless pinned.
func SetRegistry(reg apis.Registry) error {
	if reg == nil {
		return nil
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.reg = reg
	next.preg = true
	if !old.pres {
		res, err := old.bld.BuildResolver(old.cfg, reg, old.res)
		if err != nil {
			return err
		}
		next.res = res
	}
	return publish(&next)
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.res = res
	next.pres = true
	st.Store(&next)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the non-pinned layers with it.
func SetBuilder(b apis.Builder) error {
	if b == nil {
		return nil
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.bld = b
	if err := rebuild(&next, old); err != nil {
		return err
	}
	return publish(&next)
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry keeps the global registry across rebuilds.
func PinRegistry() { setPins(func(s *state) { s.preg = true }) }

// UnpinRegistry lets the next rebuild replace the global registry.
func UnpinRegistry() { setPins(func(s *state) { s.preg = false }) }

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver keeps the global resolver across rebuilds.
func PinResolver() { setPins(func(s *state) { s.pres = true }) }

// UnpinResolver lets the next rebuild replace the global resolver.
func UnpinResolver() { setPins(func(s *state) { s.pres = false }) }

func setPins(update func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	update(&next)
	st.Store(&next)
}

// rebuild replaces the non-pinned registry and resolver of next, built with
// next's builder and config from the layers of old.
func rebuild(next, old *state) error {
	if !old.preg {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg)
	}
	if !old.pres {
		res, err := next.bld.BuildResolver(next.cfg, next.reg, old.res)
		if err != nil {
			return err
		}
		next.res = res
	}
	return nil
}

// publish stores s after checking that the builder produced every layer.
// Must be called with buildMu held.
func publish(s *state) error {
	if s.reg == nil {
		return ErrNilRegistry
	}
	if s.res == nil {
		return ErrNilResolver
	}
	st.Store(s)
	return nil
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers copy it, change the copy and swap it in.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg is the global registry.
	reg apis.Registry
	// res is the global resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether the reg is pinned.
	preg bool
	// pres indicates whether the res is pinned.
	pres bool
}
