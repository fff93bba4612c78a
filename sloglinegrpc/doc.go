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

// Package sloglinegrpc connects gRPC servers to slogline filters.
//
// The server interceptors mark RPCs whose incoming metadata carries the force
// key so that [slogline.ForcedFilter] admits every record logged with the RPC
// context. [ServerOptions] also installs the otelgrpc stats handler, giving
// handlers a span that [slogline.TraceSampledFilter] can inspect.
//
// Typical usage:
//
//	server := grpc.NewServer(sloglinegrpc.ServerOptions()...)
package sloglinegrpc
