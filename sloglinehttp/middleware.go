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
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pjscruggs/slogline"
)

const instrumentationName = "github.com/pjscruggs/slogline/sloglinehttp"

// Middleware returns an http.Handler middleware that marks forced requests
// and, unless disabled, wraps the chain with otelhttp so request contexts
// carry a span.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := applyOptions(opts)

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}

		var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if forced(r, cfg.forceHeader) {
				r = r.WithContext(slogline.ContextWithForcedLogging(r.Context()))
			}
			next.ServeHTTP(w, r)
		})

		if cfg.enableOTel {
			handler = otelhttp.NewHandler(handler, instrumentationName, otelOptions(cfg)...)
		}
		return handler
	}
}

// otelOptions translates config into otelhttp options.
func otelOptions(cfg *config) []otelhttp.Option {
	var otelOpts []otelhttp.Option
	if cfg.tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.tracerProvider))
	}
	if cfg.propagators != nil {
		otelOpts = append(otelOpts, otelhttp.WithPropagators(cfg.propagators))
	}
	if cfg.spanNameFormatter != nil {
		otelOpts = append(otelOpts, otelhttp.WithSpanNameFormatter(cfg.spanNameFormatter))
	}
	for _, filter := range cfg.filters {
		otelOpts = append(otelOpts, otelhttp.WithFilter(filter))
	}
	return otelOpts
}

// forced reports whether r carries a true value in header.
func forced(r *http.Request, header string) bool {
	if header == "" {
		return false
	}
	raw := strings.TrimSpace(r.Header.Get(header))
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}

// Snapshot is the JSON document served by [InspectHandler].
type Snapshot struct {
	Modules  []slogline.Location `json:"modules"`
	Files    []slogline.Location `json:"files"`
	Fallback bool                `json:"fallback"`
}

// InspectHandler serves the allow-lists of filter as JSON. Only GET and HEAD
// are accepted; the filter is never modified.
func InspectHandler(filter *slogline.LineFilter) http.Handler {
	snapshot := Snapshot{
		Modules:  nonNil(filter.Modules()),
		Files:    nonNil(filter.Files()),
		Fallback: filter.Fallback() != nil,
	}
	body, err := json.Marshal(snapshot)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(body)
		}
	})
}

// nonNil keeps empty lists rendered as [] rather than null.
func nonNil(locs []slogline.Location) []slogline.Location {
	if locs == nil {
		return []slogline.Location{}
	}
	return locs
}
