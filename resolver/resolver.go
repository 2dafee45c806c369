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

package resolver

import (
	"log/slog"
	"reflect"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/config"
	"dirpx.dev/whitebox/extractor"
	uref "dirpx.dev/whitebox/utils/reflect"
)

// New constructs an apis.Resolver for cfg. Field candidates are extracted with
// the static members of reg; method candidates come from strategies, tried in order.
// Nil strategies are ignored. The returned resolver is safe for concurrent use
// provided strategies themselves are safe for concurrent TryMethods calls.
func New(cfg apis.Config, reg apis.Registry, strategies ...apis.Strategy) (apis.Resolver, error) {
	ex, err := extractor.New(cfg, reg)
	if err != nil {
		return nil, err
	}
	platform, err := uref.NewPlatform(cfg)
	if err != nil {
		return nil, err
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxDepth
	}
	// Filter out nils to avoid nil-interface panics on call sites.
	strats := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			strats = append(strats, s)
		}
	}
	return &resolver{
		ex:       ex,
		platform: platform,
		maxDepth: maxDepth,
		strats:   strats,
		log:      config.Logger(cfg),
	}, nil
}

// resolver is immutable after construction.
type resolver struct {
	ex       apis.Extractor
	platform *uref.Platform
	maxDepth int
	strats   []apis.Strategy
	log      *slog.Logger
}

// Ensure resolver implements apis.Resolver.
var _ apis.Resolver = (*resolver)(nil)

// walk returns scope followed by the ancestors a lookup may fall back to.
func (r *resolver) walk(scope reflect.Type) []reflect.Type {
	if scope == nil || scope.Kind() != reflect.Struct {
		return nil
	}
	return uref.Chain(scope, r.maxDepth, r.platform.Contains)
}
