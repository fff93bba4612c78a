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
	"slices"
)

type contextKey int

const (
	forcedContextKey contextKey = iota
)

// ContextWithForcedLogging returns a child context marking every record
// logged with it as eligible for [ForcedFilter]. Transport middleware uses
// it to turn on logging for a single request.
func ContextWithForcedLogging(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, forcedContextKey, true)
}

// ForcedLoggingFromContext reports whether ctx was marked by
// [ContextWithForcedLogging].
func ForcedLoggingFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	forced, _ := ctx.Value(forcedContextKey).(bool)
	return forced
}

// ForcedFilter returns a fallback [Filter] admitting records whose context
// is marked by [ContextWithForcedLogging].
func ForcedFilter() Filter {
	return FilterFunc(func(ctx context.Context, _ Descriptor) bool {
		return ForcedLoggingFromContext(ctx)
	})
}

type anyOf []Filter

// AnyOf composes filters so that a record is admitted when any of them
// admits it. The call-site interest is the strongest interest reported.
// Nil filters are ignored.
func AnyOf(filters ...Filter) Filter {
	return anyOf(slices.DeleteFunc(slices.Clone(filters), func(f Filter) bool { return f == nil }))
}

// Interest implements [Filter].
func (a anyOf) Interest(d Descriptor) Interest {
	best := InterestNever
	for _, f := range a {
		if in := f.Interest(d); in > best {
			best = in
			if best == InterestAlways {
				break
			}
		}
	}
	return best
}

// Enabled implements [Filter].
func (a anyOf) Enabled(ctx context.Context, d Descriptor) bool {
	for _, f := range a {
		if f.Enabled(ctx, d) {
			return true
		}
	}
	return false
}
