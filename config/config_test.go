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

package config_test

import (
	"bytes"
	"log/slog"
	"testing"

	"dirpx.dev/whitebox/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.MaxDepth != config.DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want %d", got.MaxDepth, config.DefaultMaxDepth)
	}
	if got.StdlibPlatform != config.DefaultStdlibPlatform {
		t.Fatalf("StdlibPlatform = %v, want %v", got.StdlibPlatform, config.DefaultStdlibPlatform)
	}
	if len(got.PlatformPatterns) != 0 {
		t.Fatalf("PlatformPatterns = %v, want empty", got.PlatformPatterns)
	}
	if got.Logger == nil {
		t.Fatal("Logger = nil, want discarding logger")
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got.MaxDepth != def.MaxDepth || got.StdlibPlatform != def.StdlibPlatform || len(got.PlatformPatterns) != 0 {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithStdlibPlatform(t *testing.T) {
	c := config.NewConfig(config.WithStdlibPlatform(false))
	if c.StdlibPlatform {
		t.Fatalf("StdlibPlatform = %v, want false", c.StdlibPlatform)
	}

	c2 := config.NewConfig(config.WithStdlibPlatform(true))
	if !c2.StdlibPlatform {
		t.Fatalf("StdlibPlatform = %v, want true", c2.StdlibPlatform)
	}
}

func TestWithMaxDepth_Positive(t *testing.T) {
	c := config.NewConfig(config.WithMaxDepth(3))
	if c.MaxDepth != 3 {
		t.Fatalf("MaxDepth = %d, want 3", c.MaxDepth)
	}
}

func TestWithMaxDepth_NonPositive_ResetsToDefault(t *testing.T) {
	for _, v := range []int{0, -1} {
		c := config.NewConfig(config.WithMaxDepth(v))
		if c.MaxDepth != config.DefaultMaxDepth {
			t.Fatalf("WithMaxDepth(%d): MaxDepth = %d, want default %d", v, c.MaxDepth, config.DefaultMaxDepth)
		}
	}
}

func TestWithPlatformPatterns_Appends(t *testing.T) {
	c := config.NewConfig(
		config.WithPlatformPatterns("golang.org/x/**"),
		config.WithPlatformPatterns("google.golang.org/*", "example.com/vendor/**"),
	)
	want := []string{"golang.org/x/**", "google.golang.org/*", "example.com/vendor/**"}
	if len(c.PlatformPatterns) != len(want) {
		t.Fatalf("PlatformPatterns = %v, want %v", c.PlatformPatterns, want)
	}
	for i := range want {
		if c.PlatformPatterns[i] != want[i] {
			t.Fatalf("PlatformPatterns[%d] = %q, want %q", i, c.PlatformPatterns[i], want[i])
		}
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := config.NewConfig(config.WithLogger(logger))
	c.Logger.Debug("probe")
	if buf.Len() == 0 {
		t.Fatal("expected configured logger to receive the record")
	}

	c2 := config.NewConfig(config.WithLogger(nil))
	if c2.Logger == nil {
		t.Fatal("WithLogger(nil): Logger = nil, want discarding logger")
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithStdlibPlatform(false),
		config.WithStdlibPlatform(true),
		config.WithMaxDepth(2),
		config.WithMaxDepth(5),
	)

	if !c.StdlibPlatform {
		t.Errorf("StdlibPlatform = %v, want true (last option wins)", c.StdlibPlatform)
	}
	if c.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5 (last option wins)", c.MaxDepth)
	}
}
