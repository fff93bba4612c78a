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

package slogline_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/pjscruggs/slogline"
)

func TestForcedLoggingContext(t *testing.T) {
	t.Parallel()

	if slogline.ForcedLoggingFromContext(context.Background()) {
		t.Fatalf("background context reported forced")
	}
	ctx := slogline.ContextWithForcedLogging(context.Background())
	if !slogline.ForcedLoggingFromContext(ctx) {
		t.Fatalf("marked context not reported forced")
	}
	if !slogline.ForcedLoggingFromContext(slogline.ContextWithForcedLogging(nil)) {
		t.Fatalf("nil parent context not marked")
	}

	f := slogline.ForcedFilter()
	if got := f.Interest(slogline.Descriptor{}); got != slogline.InterestSometimes {
		t.Fatalf("Interest() = %v, want sometimes", got)
	}
	if !f.Enabled(ctx, slogline.Descriptor{}) || f.Enabled(context.Background(), slogline.Descriptor{}) {
		t.Fatalf("ForcedFilter did not follow the context mark")
	}
}

func TestAnyOf(t *testing.T) {
	t.Parallel()

	never := &fixedFilter{interest: slogline.InterestNever}
	sometimes := &fixedFilter{interest: slogline.InterestSometimes, enabled: true}
	always := &fixedFilter{interest: slogline.InterestAlways, enabled: true}

	if got := slogline.AnyOf().Interest(slogline.Descriptor{}); got != slogline.InterestNever {
		t.Errorf("empty AnyOf interest = %v, want never", got)
	}
	if got := slogline.AnyOf(never, nil, sometimes).Interest(slogline.Descriptor{}); got != slogline.InterestSometimes {
		t.Errorf("AnyOf interest = %v, want sometimes", got)
	}
	if got := slogline.AnyOf(sometimes, always, never).Interest(slogline.Descriptor{}); got != slogline.InterestAlways {
		t.Errorf("AnyOf interest = %v, want always", got)
	}
	if slogline.AnyOf(never).Enabled(context.Background(), slogline.Descriptor{}) {
		t.Errorf("AnyOf(never) admitted a record")
	}
	if !slogline.AnyOf(never, sometimes).Enabled(context.Background(), slogline.Descriptor{}) {
		t.Errorf("AnyOf(never, sometimes) rejected a record")
	}
}

func TestTraceSampledFilter(t *testing.T) {
	t.Parallel()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")

	sampled := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	unsampled := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	f := slogline.TraceSampledFilter()
	if !f.Enabled(sampled, slogline.Descriptor{}) {
		t.Errorf("sampled span rejected")
	}
	if f.Enabled(unsampled, slogline.Descriptor{}) {
		t.Errorf("unsampled span admitted")
	}
	if f.Enabled(context.Background(), slogline.Descriptor{}) {
		t.Errorf("context without span admitted")
	}
}
