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

package config

import (
	"log/slog"

	"dirpx.dev/whitebox/apis"
)

const (
	// DefaultMaxDepth represents the default for MaxDepth.
	// A value of 32 should be sufficient for all practical embedding chains.
	DefaultMaxDepth = 32
	// DefaultStdlibPlatform represents the default for StdlibPlatform.
	// When true, standard library ancestors terminate the walk.
	DefaultStdlibPlatform = true
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxDepth is valid.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Logger == nil {
		cfg.Logger = DiscardLogger()
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxDepth:       DefaultMaxDepth,
		StdlibPlatform: DefaultStdlibPlatform,
		Logger:         DiscardLogger(),
	}
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Logger returns cfg.Logger, or a discarding logger when none is set.
func Logger(cfg apis.Config) *slog.Logger {
	if cfg.Logger == nil {
		return DiscardLogger()
	}
	return cfg.Logger
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = max
	}
}

// WithStdlibPlatform sets the StdlibPlatform option.
func WithStdlibPlatform(enabled bool) Option {
	return func(c *apis.Config) {
		c.StdlibPlatform = enabled
	}
}

// WithPlatformPatterns appends glob patterns matched against package paths.
func WithPlatformPatterns(patterns ...string) Option {
	return func(c *apis.Config) {
		c.PlatformPatterns = append(append([]string(nil), c.PlatformPatterns...), patterns...)
	}
}

// WithLogger sets the logger used for resolution diagnostics.
// A nil logger discards records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *apis.Config) {
		if logger == nil {
			logger = DiscardLogger()
		}
		c.Logger = logger
	}
}
