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

// Package slogline filters [log/slog] records by the exact source line that
// produced them. A [LineFilter] holds two allow-lists of [Location] values,
// one keyed by package import path and one keyed by absolute file path. A
// record whose call site matches either list is always collected; any other
// record is decided by an optional fallback [Filter] such as a
// [LevelFilter], and rejected when no fallback is configured.
//
// This makes it possible to switch on one noisy debug line in production
// without lowering the level of its whole package.
//
// # Building a filter
//
// Filters are configured through a [Builder] and frozen with
// [Builder.Build]. The frozen [LineFilter] is immutable and can be shared by
// any number of goroutines:
//
//	b := slogline.NewBuilder().
//		EnableByModule("github.com/acme/app/worker", 42).
//		WithFallback(slogline.NewLevelFilter(slog.LevelWarn))
//	if err := b.EnableByFile("/src/acme/app/main.go", 17); err != nil {
//		log.Fatal(err)
//	}
//	filter := b.Build()
//
// File paths must be absolute ".go" paths in valid UTF-8, matching what the
// runtime reports; otherwise a [*BadPathError] is returned. Module paths are
// not validated.
//
// # Attaching to a logger
//
// [NewHandler] wraps any [slog.Handler]. The call site of each record is
// resolved from [slog.Record.PC], and the filter's [Interest] in that site is
// cached so allow-listed and never-admitted sites cost a single map lookup:
//
//	logger := slog.New(slogline.NewHandler(slog.NewJSONHandler(os.Stderr, nil), filter))
//
// Configurations can also be loaded from YAML with [LoadConfig] or from the
// SLOGLINE_MODULES, SLOGLINE_FILES and SLOGLINE_LEVEL environment variables
// with [ConfigFromEnv].
//
// # Subpackages
//
//   - [github.com/pjscruggs/slogline/sloglinehttp] provides net/http
//     middleware that starts request spans and honours a per-request force
//     header, plus a read-only endpoint describing the active filter.
//   - [github.com/pjscruggs/slogline/sloglinegrpc] provides the equivalent
//     gRPC server interceptors.
package slogline
