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
	"context"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/pjscruggs/slogline"
)

// UnaryServerInterceptor marks forced unary RPCs.
func UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := applyOptions(opts)

	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(markForced(ctx, cfg), req)
	}
}

// StreamServerInterceptor marks forced streaming RPCs.
func StreamServerInterceptor(opts ...Option) grpc.StreamServerInterceptor {
	cfg := applyOptions(opts)

	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := ss.Context()
		marked := markForced(ctx, cfg)
		if !slogline.ForcedLoggingFromContext(marked) || slogline.ForcedLoggingFromContext(ctx) {
			return handler(srv, ss)
		}
		return handler(srv, &serverStream{ServerStream: ss, ctx: marked})
	}
}

// ServerOptions returns grpc.ServerOptions that install the otelgrpc stats
// handler and the slogline interceptors.
func ServerOptions(opts ...Option) []grpc.ServerOption {
	cfg := applyOptions(opts)
	var serverOpts []grpc.ServerOption

	if cfg.enableOTel {
		serverOpts = append(serverOpts, grpc.StatsHandler(otelgrpc.NewServerHandler(statsHandlerOptions(cfg)...)))
	}

	serverOpts = append(serverOpts,
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor(opts...)),
		grpc.ChainStreamInterceptor(StreamServerInterceptor(opts...)),
	)
	return serverOpts
}

// statsHandlerOptions configures otelgrpc instrumentation.
func statsHandlerOptions(cfg *config) []otelgrpc.Option {
	var opts []otelgrpc.Option
	if cfg.tracerProvider != nil {
		opts = append(opts, otelgrpc.WithTracerProvider(cfg.tracerProvider))
	}
	if cfg.propagators != nil {
		opts = append(opts, otelgrpc.WithPropagators(cfg.propagators))
	}
	return opts
}

// markForced returns ctx marked for forced logging when its incoming
// metadata carries a true force value, and ctx unchanged otherwise.
func markForced(ctx context.Context, cfg *config) context.Context {
	if cfg.forceKey == "" {
		return ctx
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	for _, v := range md.Get(cfg.forceKey) {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil && b {
			return slogline.ContextWithForcedLogging(ctx)
		}
	}
	return ctx
}

type serverStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the marked context.
func (s *serverStream) Context() context.Context {
	return s.ctx
}
