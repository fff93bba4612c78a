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

package sloglinegrpc

import (
	"strings"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// DefaultForceKey is the metadata key that turns on forced logging for an
// RPC when its value parses as a true boolean.
const DefaultForceKey = "x-slogline-force"

// Option configures interceptor behaviour.
type Option func(*config)

type config struct {
	forceKey       string
	enableOTel     bool
	tracerProvider trace.TracerProvider
	propagators    propagation.TextMapPropagator
}

// applyOptions applies opts on top of the defaults.
func applyOptions(opts []Option) *config {
	cfg := &config{
		forceKey:   DefaultForceKey,
		enableOTel: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithForceKey changes the metadata key consulted for forced logging. Keys
// are matched case-insensitively; an empty key disables the feature.
func WithForceKey(key string) Option {
	normalized := strings.ToLower(strings.TrimSpace(key))
	return func(cfg *config) {
		cfg.forceKey = normalized
	}
}

// WithOTel toggles installation of the otelgrpc stats handler by
// [ServerOptions].
func WithOTel(enabled bool) Option {
	return func(cfg *config) {
		cfg.enableOTel = enabled
	}
}

// WithTracerProvider sets the tracer provider used by otelgrpc.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.tracerProvider = tp
	}
}

// WithPropagators sets the propagator used by otelgrpc to extract trace
// context from incoming metadata.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(cfg *config) {
		cfg.propagators = p
	}
}
