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
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// DefaultForceHeader is the request header that turns on forced logging when
// its value parses as a true boolean.
const DefaultForceHeader = "X-Slogline-Force"

// Option configures HTTP middleware behaviour.
type Option func(*config)

type config struct {
	forceHeader       string
	enableOTel        bool
	tracerProvider    trace.TracerProvider
	propagators       propagation.TextMapPropagator
	spanNameFormatter func(string, *http.Request) string
	filters           []otelhttp.Filter
}

// defaultConfig returns the baseline configuration for slogline HTTP helpers.
func defaultConfig() *config {
	return &config{
		forceHeader: DefaultForceHeader,
		enableOTel:  true,
	}
}

// applyOptions applies the provided options on top of defaultConfig.
func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithForceHeader changes the header consulted for forced logging. An empty
// name disables the feature.
func WithForceHeader(name string) Option {
	trimmed := strings.TrimSpace(name)
	return func(cfg *config) {
		cfg.forceHeader = trimmed
	}
}

// WithOTel enables or disables otelhttp instrumentation. It is enabled by
// default.
func WithOTel(enabled bool) Option {
	return func(cfg *config) {
		cfg.enableOTel = enabled
	}
}

// WithTracerProvider installs the tracer provider used by otelhttp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.tracerProvider = tp
	}
}

// WithPropagators supplies the propagator used to extract incoming trace
// context. When omitted, otel.GetTextMapPropagator() is used.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(cfg *config) {
		cfg.propagators = p
	}
}

// WithSpanNameFormatter customizes otelhttp span naming.
func WithSpanNameFormatter(fn func(string, *http.Request) string) Option {
	return func(cfg *config) {
		cfg.spanNameFormatter = fn
	}
}

// WithFilter appends an otelhttp filter; requests it rejects are not traced.
func WithFilter(filter otelhttp.Filter) Option {
	return func(cfg *config) {
		if filter != nil {
			cfg.filters = append(cfg.filters, filter)
		}
	}
}
