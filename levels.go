// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package slogline

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// LevelFilter is a fallback [Filter] that admits records at or above a
// minimum level, with optional per-module overrides. The override with the
// longest matching module prefix wins. Prefixes match whole path segments
// separated by "/", "." or "::".
//
// A LevelFilter is immutable; [LevelFilter.WithModuleLevel] returns a copy.
type LevelFilter struct {
	def     slog.Leveler
	modules []moduleLevel
}

type moduleLevel struct {
	prefix string
	level  slog.Leveler
}

var _ Filter = (*LevelFilter)(nil)

// NewLevelFilter returns a LevelFilter using def as the minimum level for
// modules without an override. A nil def means [slog.LevelInfo].
func NewLevelFilter(def slog.Leveler) *LevelFilter {
	if def == nil {
		def = slog.LevelInfo
	}
	return &LevelFilter{def: def}
}

// WithModuleLevel returns a copy of f that applies level to records whose
// module (or target) is prefix or nested below it.
func (f *LevelFilter) WithModuleLevel(prefix string, level slog.Leveler) *LevelFilter {
	if level == nil {
		level = slog.LevelInfo
	}
	out := &LevelFilter{def: f.def, modules: slices.Clone(f.modules)}
	out.modules = slices.DeleteFunc(out.modules, func(m moduleLevel) bool { return m.prefix == prefix })
	out.modules = append(out.modules, moduleLevel{prefix: prefix, level: level})
	slices.SortStableFunc(out.modules, func(a, b moduleLevel) int {
		return len(b.prefix) - len(a.prefix)
	})
	return out
}

// Interest implements [Filter]. Static levels resolve the site once; a
// [*slog.LevelVar] can change at runtime so its sites are evaluated per
// record.
func (f *LevelFilter) Interest(d Descriptor) Interest {
	lv := f.leveler(d)
	if _, dynamic := lv.(*slog.LevelVar); dynamic {
		return InterestSometimes
	}
	if d.Level >= lv.Level() {
		return InterestAlways
	}
	return InterestNever
}

// Enabled implements [Filter].
func (f *LevelFilter) Enabled(_ context.Context, d Descriptor) bool {
	return d.Level >= f.leveler(d).Level()
}

// leveler picks the override for d's module, or the default.
func (f *LevelFilter) leveler(d Descriptor) slog.Leveler {
	id := d.identity()
	for _, m := range f.modules {
		if hasModulePrefix(id, m.prefix) {
			return m.level
		}
	}
	if f.def == nil {
		return slog.LevelInfo
	}
	return f.def
}

// hasModulePrefix reports whether id equals prefix or continues it at a
// segment boundary.
func hasModulePrefix(id, prefix string) bool {
	if !strings.HasPrefix(id, prefix) {
		return false
	}
	rest := id[len(prefix):]
	if rest == "" || prefix == "" {
		return true
	}
	return rest[0] == '/' || rest[0] == '.' || strings.HasPrefix(rest, "::")
}

// parseLevel converts a level name or integer into a slog level.
func parseLevel(value string) (slog.Level, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "trace":
		return slog.LevelDebug - 4, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	if lv, err := strconv.Atoi(trimmed); err == nil {
		return slog.Level(lv), true
	}
	return 0, false
}
