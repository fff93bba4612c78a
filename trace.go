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

	"go.opentelemetry.io/otel/trace"
)

// TraceSampledFilter returns a fallback [Filter] admitting records logged
// with a context whose OpenTelemetry span is sampled. This keeps logs for
// the same requests that produce traces.
func TraceSampledFilter() Filter {
	return FilterFunc(func(ctx context.Context, _ Descriptor) bool {
		if ctx == nil {
			return false
		}
		sc := trace.SpanContextFromContext(ctx)
		return sc.IsValid() && sc.IsSampled()
	})
}
