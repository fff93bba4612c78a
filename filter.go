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
	"cmp"
	"context"
	"maps"
	"path/filepath"
	"slices"
	"unicode/utf8"
)

const sourceFileExt = ".go"

// Builder collects allow-listed locations before they are frozen into a
// [LineFilter]. A Builder is not safe for concurrent use.
type Builder struct {
	byModule map[Location]struct{}
	byFile   map[Location]struct{}
	fallback Filter
}

// NewBuilder returns a Builder seeded with the given module locations.
func NewBuilder(modules ...Location) *Builder {
	b := &Builder{
		byModule: make(map[Location]struct{}, len(modules)),
		byFile:   make(map[Location]struct{}),
	}
	return b.WithModules(modules)
}

// EnableByModule enables the call site at line in the package with import
// path module. Enabling a location that does not exist is silently inert.
//
// Line numbers are relative to the start of the file, as reported by the
// runtime, so packages spanning several files share one line space here.
func (b *Builder) EnableByModule(module string, line int) *Builder {
	if b.byModule == nil {
		b.byModule = make(map[Location]struct{})
	}
	b.byModule[Location{Identifier: module, Line: line}] = struct{}{}
	return b
}

// EnableByFile enables the call site at line in the source file at path.
// Paths must match what the runtime reports: they must be absolute, end in
// ".go" and be valid UTF-8. A [*BadPathError] is returned otherwise and the
// builder is left unchanged.
func (b *Builder) EnableByFile(path string, line int) error {
	if err := validateFile(path); err != nil {
		return err
	}
	b.addFiles(Location{Identifier: path, Line: line})
	return nil
}

// WithModules enables every module location in locs.
func (b *Builder) WithModules(locs []Location) *Builder {
	for _, loc := range locs {
		b.EnableByModule(loc.Identifier, loc.Line)
	}
	return b
}

// WithFiles enables every file location in locs. All paths are validated
// first; if any is rejected the error for the first bad entry is returned
// and no location from locs is added.
func (b *Builder) WithFiles(locs []Location) error {
	for _, loc := range locs {
		if err := validateFile(loc.Identifier); err != nil {
			return err
		}
	}
	b.addFiles(locs...)
	return nil
}

func (b *Builder) addFiles(locs ...Location) {
	if b.byFile == nil {
		b.byFile = make(map[Location]struct{}, len(locs))
	}
	for _, loc := range locs {
		b.byFile[loc] = struct{}{}
	}
}

// WithFallback composes the filter with f, which decides for records that are
// not allow-listed. A later call replaces the previous fallback and a nil f
// removes it.
func (b *Builder) WithFallback(f Filter) *Builder {
	b.fallback = f
	return b
}

// Build freezes the current configuration into a [LineFilter]. The result
// does not observe later changes to b.
func (b *Builder) Build() *LineFilter {
	return &LineFilter{
		byModule: maps.Clone(b.byModule),
		byFile:   maps.Clone(b.byFile),
		fallback: b.fallback,
	}
}

// validateFile applies the file path rules of [Builder.EnableByFile].
func validateFile(path string) error {
	if !filepath.IsAbs(path) {
		return &BadPathError{Path: path, Reason: ReasonNotAbsolute}
	}
	if filepath.Ext(path) != sourceFileExt {
		return &BadPathError{Path: path, Reason: ReasonNotSource}
	}
	if !utf8.ValidString(path) {
		return &BadPathError{Path: path, Reason: ReasonInvalidUTF8}
	}
	return nil
}

// LineFilter admits records whose exact module/line or file/line location was
// enabled, and otherwise defers to an optional fallback [Filter]. A
// LineFilter is immutable and safe for concurrent use.
type LineFilter struct {
	byModule map[Location]struct{}
	byFile   map[Location]struct{}
	fallback Filter
}

var _ Filter = (*LineFilter)(nil)

// Matches reports whether d's location is allow-listed. Descriptors without a
// line never match. The module check uses d.Target when d.Module is empty.
func (f *LineFilter) Matches(d Descriptor) bool {
	if f == nil || d.Line == 0 {
		return false
	}
	if id := d.identity(); id != "" {
		if _, ok := f.byModule[Location{Identifier: id, Line: d.Line}]; ok {
			return true
		}
	}
	if d.File != "" {
		if _, ok := f.byFile[Location{Identifier: d.File, Line: d.Line}]; ok {
			return true
		}
	}
	return false
}

// Interest implements [Filter]. Allow-listed sites are always interesting;
// other sites get the fallback's verdict, or [InterestNever] without one.
func (f *LineFilter) Interest(d Descriptor) Interest {
	if f.Matches(d) {
		return InterestAlways
	}
	if fb := f.Fallback(); fb != nil {
		return fb.Interest(d)
	}
	return InterestNever
}

// Enabled implements [Filter]. ctx is passed to the fallback untouched.
func (f *LineFilter) Enabled(ctx context.Context, d Descriptor) bool {
	if f.Matches(d) {
		return true
	}
	if fb := f.Fallback(); fb != nil {
		return fb.Enabled(ctx, d)
	}
	return false
}

// Fallback returns the composed fallback filter, or nil.
func (f *LineFilter) Fallback() Filter {
	if f == nil {
		return nil
	}
	return f.fallback
}

// Modules returns the enabled module locations in sorted order.
func (f *LineFilter) Modules() []Location {
	if f == nil {
		return nil
	}
	return sortedLocations(f.byModule)
}

// Files returns the enabled file locations in sorted order.
func (f *LineFilter) Files() []Location {
	if f == nil {
		return nil
	}
	return sortedLocations(f.byFile)
}

// inert reports whether f can never admit a record.
func (f *LineFilter) inert() bool {
	return f == nil || (len(f.byModule) == 0 && len(f.byFile) == 0 && f.fallback == nil)
}

// sortedLocations returns the keys of set ordered by identifier then line.
func sortedLocations(set map[Location]struct{}) []Location {
	locs := slices.Collect(maps.Keys(set))
	slices.SortFunc(locs, func(a, b Location) int {
		if c := cmp.Compare(a.Identifier, b.Identifier); c != 0 {
			return c
		}
		return cmp.Compare(a.Line, b.Line)
	})
	return locs
}
