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

package apis

import "log/slog"

// Config carries read-only knobs that influence member extraction and resolution.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MaxDepth limits how many ancestor levels are walked above the starting type.
	// Acts as a safety guard against pathological embedding chains.
	MaxDepth int

	// StdlibPlatform controls whether Go standard library types terminate the
	// ancestor walk. Their fields are never surfaced when true.
	StdlibPlatform bool

	// PlatformPatterns are additional glob patterns ('/' separated) matched against
	// a type's package path. A matching ancestor terminates the walk.
	PlatformPatterns []string

	// Logger receives debug records about resolution steps. Nil means discard.
	Logger *slog.Logger
}
