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
	"strconv"
)

// Location identifies a single call site by module path or file path and a
// 1-based line number. Two locations are equal only when both the identifier
// bytes and the line match exactly.
type Location struct {
	Identifier string `yaml:"id" json:"id"`
	Line       int    `yaml:"line" json:"line"`
}

// String renders the location as "identifier:line".
func (l Location) String() string {
	return l.Identifier + ":" + strconv.Itoa(l.Line)
}

// Descriptor carries the metadata a [Filter] inspects for one record or call
// site. Empty strings mark an absent module or file and a zero Line marks an
// unknown line.
type Descriptor struct {
	// Module is the package import path of the logging call, for example
	// "github.com/acme/app/worker".
	Module string
	// Target substitutes for Module when no module path is available.
	Target string
	// File is the absolute source file path reported by the runtime.
	File  string
	Line  int
	Level slog.Level
}

// identity returns the module path, or the target when no module is set.
func (d Descriptor) identity() string {
	if d.Module != "" {
		return d.Module
	}
	return d.Target
}

// Interest is a call-site level verdict that the pipeline may cache.
type Interest int

const (
	// InterestNever means no record from the site can be admitted.
	InterestNever Interest = iota
	// InterestSometimes means each record must be evaluated with
	// [Filter.Enabled].
	InterestSometimes
	// InterestAlways means every record from the site is admitted.
	InterestAlways
)

// String returns a lower-case name for the interest.
func (i Interest) String() string {
	switch i {
	case InterestNever:
		return "never"
	case InterestSometimes:
		return "sometimes"
	case InterestAlways:
		return "always"
	default:
		return "interest(" + strconv.Itoa(int(i)) + ")"
	}
}

// Filter is the capability shared by [LineFilter] and the fallback filters it
// can delegate to. Implementations must be safe for concurrent use.
type Filter interface {
	// Interest reports whether records from the call site described by d
	// could ever be admitted. Results may be cached per call site.
	Interest(d Descriptor) Interest
	// Enabled reports whether the record described by d should be collected.
	// ctx is the record's context and is opaque to callers.
	Enabled(ctx context.Context, d Descriptor) bool
}

// FilterFunc adapts a per-record predicate to [Filter]. Its interest is always
// [InterestSometimes].
type FilterFunc func(ctx context.Context, d Descriptor) bool

// Interest implements [Filter].
func (f FilterFunc) Interest(Descriptor) Interest { return InterestSometimes }

// Enabled implements [Filter].
func (f FilterFunc) Enabled(ctx context.Context, d Descriptor) bool {
	if f == nil {
		return false
	}
	return f(ctx, d)
}
