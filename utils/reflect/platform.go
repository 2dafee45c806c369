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
	_ "embed"
	"reflect"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"dirpx.dev/whitebox/apis"
)

// Platform decides whether a type belongs to a foundational namespace whose
// members must never be surfaced.
type Platform struct {
	stdlib   bool
	patterns []glob.Glob
}

// NewPlatform compiles the platform rules carried by cfg.
func NewPlatform(cfg apis.Config) (*Platform, error) {
	p := &Platform{stdlib: cfg.StdlibPlatform}
	for _, raw := range cfg.PlatformPatterns {
		g, err := glob.Compile(raw, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "reflect: invalid platform pattern %q", raw)
		}
		p.patterns = append(p.patterns, g)
	}
	return p, nil
}

// Contains reports whether t is declared in a platform package.
// Unnamed and predeclared types have no package and are never platform types.
func (p *Platform) Contains(t reflect.Type) bool {
	if p == nil || t == nil {
		return false
	}
	pkg := t.PkgPath()
	if pkg == "" {
		return false
	}
	if p.stdlib && IsStdlib(pkg) {
		return true
	}
	for _, g := range p.patterns {
		if g.Match(pkg) {
			return true
		}
	}
	return false
}

//go:embed stdlib.txt
var stdlibData string

// stdlibRoots holds the first import path element of every standard library package.
var stdlibRoots = map[string]bool{}

func init() {
	for _, line := range strings.Split(stdlibData, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			stdlibRoots[line] = true
		}
	}
}

// IsStdlib reports whether pkg is a standard library import path.
// Module paths without a dot, such as "myapp/model", are not.
func IsStdlib(pkg string) bool {
	if pkg == "" {
		return false
	}
	first := pkg
	if i := strings.IndexByte(pkg, '/'); i >= 0 {
		first = pkg[:i]
	}
	return stdlibRoots[first]
}
