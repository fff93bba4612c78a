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

// Package sloglinehttp connects net/http servers to slogline filters.
//
// [Middleware] starts an OpenTelemetry span for each request so that
// [slogline.TraceSampledFilter] can admit records from sampled requests, and
// marks requests carrying the force header so that [slogline.ForcedFilter]
// admits every record logged with the request context. [InspectHandler]
// serves a read-only JSON view of a frozen [slogline.LineFilter].
package sloglinehttp
