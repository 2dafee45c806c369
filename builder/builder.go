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

package builder

import (
	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/registry"
	"dirpx.dev/whitebox/resolver"
	"dirpx.dev/whitebox/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are
// replayed into the new registry.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	if prev != nil {
		registry.Replay(nreg, prev.Entries())
	}
	return nreg
}

// BuildResolver builds and returns a new apis.Resolver based on the provided configuration
// and registry. Registered methods take precedence over the reflected method set.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry, _ apis.Resolver) (apis.Resolver, error) {
	return resolver.New(cfg, reg,
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(),
	)
}
