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

package sloglinehttp

import (
	"os"
	"strconv"
	"strings"
	"sync"

	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

var installPropagatorOnce sync.Once

// EnsurePropagation installs a composite global text map propagator that
// accepts Google Cloud's X-Cloud-Trace-Context header as well as W3C trace
// context and baggage, so that [slogline.TraceSampledFilter] sees the
// sampling decision made by the caller. It runs once per process and does
// nothing when SLOGLINE_DISABLE_PROPAGATOR_AUTOSET is true.
func EnsurePropagation() {
	installPropagatorOnce.Do(func() {
		if disableAutoSet() {
			return
		}
		otel.SetTextMapPropagator(Propagator())
	})
}

// Propagator returns the composite propagator installed by
// [EnsurePropagation].
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		gcppropagator.CloudTraceOneWayPropagator{},
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// disableAutoSet reports whether automatic propagator installation is
// disabled.
func disableAutoSet() bool {
	raw := strings.TrimSpace(os.Getenv("SLOGLINE_DISABLE_PROPAGATOR_AUTOSET"))
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
