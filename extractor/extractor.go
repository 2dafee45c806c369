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

package extractor

import (
	"go/token"
	"reflect"
	"sort"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/config"
	uref "dirpx.dev/whitebox/utils/reflect"
)

// New constructs an apis.Extractor for cfg. reg supplies static members and may be nil.
// The platform rules are compiled once; invalid patterns are reported here.
func New(cfg apis.Config, reg apis.Registry) (apis.Extractor, error) {
	platform, err := uref.NewPlatform(cfg)
	if err != nil {
		return nil, err
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxDepth
	}
	return &extractor{reg: reg, platform: platform, maxDepth: maxDepth}, nil
}

// extractor walks a struct's supertype chain and collects visible members.
// It holds no per-call state and is safe for concurrent use.
type extractor struct {
	reg      apis.Registry
	platform *uref.Platform
	maxDepth int
}

// Ensure extractor implements apis.Extractor.
var _ apis.Extractor = (*extractor)(nil)

// Extract returns every member declared on start, plus the non-private members
// of its ancestors. A name already contributed by a nearer type shadows the
// ancestor's member of the same name.
func (e *extractor) Extract(start reflect.Type) []apis.Member {
	if start == nil || start.Kind() != reflect.Struct {
		return nil
	}
	var out []apis.Member
	seen := map[string]bool{}
	for depth, t := range uref.Chain(start, e.maxDepth, e.platform.Contains) {
		var level []apis.Member
		link, _, hasSuper := uref.Super(t)
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Name == "_" || (hasSuper && i == link.Index[0]) {
				continue
			}
			if depth > 0 && !visible(start, t, f.IsExported()) {
				continue
			}
			level = append(level, apis.Member{
				Name:      f.Name,
				Type:      f.Type,
				Owner:     t,
				Depth:     depth,
				Modifiers: apis.Modifiers{Exported: f.IsExported()},
				Field:     f,
			})
		}
		if e.reg != nil {
			for _, s := range e.reg.Statics(t) {
				exported := token.IsExported(s.Name)
				if depth > 0 && !visible(start, t, exported) {
					continue
				}
				entry := s
				level = append(level, apis.Member{
					Name:      s.Name,
					Type:      s.Type,
					Owner:     t,
					Depth:     depth,
					Modifiers: apis.Modifiers{Exported: exported, Static: true, Final: s.Final},
					Static:    &entry,
				})
			}
		}
		for _, m := range level {
			if seen[m.Name] {
				continue
			}
			out = append(out, m)
		}
		for _, m := range level {
			seen[m.Name] = true
		}
	}
	Sort(out)
	return out
}

// visible reports whether a member of ancestor owner is visible from start:
// exported members always are, unexported ones only inside the same package.
func visible(start, owner reflect.Type, exported bool) bool {
	return exported || owner.PkgPath() == start.PkgPath()
}

// Sort orders members by (name, declared type name), then by depth.
func Sort(members []apis.Member) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if at, bt := apis.TypeName(a.Type), apis.TypeName(b.Type); at != bt {
			return at < bt
		}
		return a.Depth < b.Depth
	})
}
