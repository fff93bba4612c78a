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
	"log/slog"
	"runtime"
	"strings"
	"sync"
)

// DefaultTargetKey is the attribute key whose value, when bound with
// [slog.Logger.With], becomes the [Descriptor.Target] of later records.
const DefaultTargetKey = "logger"

// Option mutates Handler construction behaviour when supplied to
// [NewHandler] or [Middleware].
type Option func(*options)

type options struct {
	targetKey      *string
	metrics        *Metrics
	internalLogger *slog.Logger
}

// WithTargetKey changes the attribute key used to derive record targets. An
// empty key disables target detection.
func WithTargetKey(key string) Option {
	trimmed := strings.TrimSpace(key)
	return func(o *options) {
		o.targetKey = &trimmed
	}
}

// WithMetrics records admission decisions and call-site registrations in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithInternalLogger injects a logger for handler diagnostics. It must not
// route through the handler being built.
func WithInternalLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.internalLogger = logger
	}
}

type handlerConfig struct {
	targetKey      string
	metrics        *Metrics
	internalLogger *slog.Logger
}

// Handler is an [slog.Handler] middleware that admits records according to a
// [Filter] before passing them to the next handler. The filter's interest in
// each call site is computed once and cached; records from sites with
// [InterestSometimes] are evaluated individually.
//
// Admitted records are passed to the next handler without consulting its
// Enabled method, so allow-listed lines are not suppressed by a downstream
// minimum level.
type Handler struct {
	next    slog.Handler
	filter  Filter
	cfg     *handlerConfig
	sites   *siteCache
	target  string
	grouped bool
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler wraps next with filter. A nil next discards records and a nil
// filter rejects every record.
//
// Example:
//
//	b := slogline.NewBuilder().EnableByModule("github.com/acme/app/worker", 42)
//	h := slogline.NewHandler(slog.NewJSONHandler(os.Stderr, nil), b.Build())
//	logger := slog.New(h)
func NewHandler(next slog.Handler, filter Filter, opts ...Option) *Handler {
	builder := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(builder)
		}
	}

	cfg := &handlerConfig{
		targetKey:      DefaultTargetKey,
		metrics:        builder.metrics,
		internalLogger: builder.internalLogger,
	}
	if builder.targetKey != nil {
		cfg.targetKey = *builder.targetKey
	}
	if cfg.internalLogger == nil {
		cfg.internalLogger = slog.New(slog.DiscardHandler)
	}
	if next == nil {
		next = slog.DiscardHandler
	}
	if filter == nil {
		filter = NewBuilder().Build()
	}

	return &Handler{
		next:   next,
		filter: filter,
		cfg:    cfg,
		sites:  &siteCache{},
	}
}

// Middleware returns a function wrapping handlers with filter, suitable for
// handler chains that compose middlewares.
func Middleware(filter Filter, opts ...Option) func(slog.Handler) slog.Handler {
	return func(next slog.Handler) slog.Handler {
		return NewHandler(next, filter, opts...)
	}
}

// Enabled implements [slog.Handler]. The call site is unknown until the
// record exists, so it only reports false for a filter that can never
// admit anything.
func (h *Handler) Enabled(context.Context, slog.Level) bool {
	if lf, ok := h.filter.(*LineFilter); ok && lf.inert() {
		return false
	}
	return true
}

// Handle implements [slog.Handler].
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	site := h.lookup(r.PC, r.Level)

	var admitted bool
	switch site.interest {
	case InterestAlways:
		admitted = true
	case InterestNever:
		admitted = false
	default:
		admitted = h.filter.Enabled(ctx, site.desc)
	}
	h.cfg.metrics.observeDecision(site.interest, admitted)

	if !admitted {
		return nil
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs implements [slog.Handler]. A top-level attribute named by the
// target key sets the target for records logged through the result.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	child := h.clone()
	child.next = h.next.WithAttrs(attrs)
	if !h.grouped && h.cfg.targetKey != "" {
		for _, a := range attrs {
			if a.Key == h.cfg.targetKey {
				child.target = a.Value.Resolve().String()
			}
		}
	}
	if child.target != h.target {
		child.sites = &siteCache{}
	}
	return child
}

// WithGroup implements [slog.Handler].
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := h.clone()
	child.next = h.next.WithGroup(name)
	child.grouped = true
	return child
}

// Filter returns the filter consulted by h.
func (h *Handler) Filter() Filter {
	return h.filter
}

func (h *Handler) clone() *Handler {
	c := *h
	return &c
}

type siteKey struct {
	pc    uintptr
	level slog.Level
}

type callsite struct {
	desc     Descriptor
	interest Interest
}

// siteCache memoizes the filter's interest per call site and level.
type siteCache struct {
	m sync.Map // siteKey -> *callsite
}

// lookup returns the cached call site for pc at level, registering it with
// the filter on first use.
func (h *Handler) lookup(pc uintptr, level slog.Level) *callsite {
	key := siteKey{pc: pc, level: level}
	if cached, ok := h.sites.m.Load(key); ok {
		return cached.(*callsite)
	}

	desc := describe(pc, level, h.target)
	site := &callsite{desc: desc, interest: h.filter.Interest(desc)}
	actual, loaded := h.sites.m.LoadOrStore(key, site)
	if !loaded {
		h.cfg.metrics.observeCallsite(site.interest)
		logDiagnostic(h.cfg.internalLogger, slog.LevelDebug, "registered call site",
			slog.String("module", desc.Module),
			slog.String("file", desc.File),
			slog.Int("line", desc.Line),
			slog.String("interest", site.interest.String()),
		)
	}
	return actual.(*callsite)
}

// describe builds the descriptor for a record logged at pc. A zero pc
// yields a descriptor without location.
func describe(pc uintptr, level slog.Level, target string) Descriptor {
	d := Descriptor{Target: target, Level: level}
	if pc == 0 {
		return d
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	d.File = frame.File
	d.Line = frame.Line
	d.Module = packagePath(frame.Function)
	return d
}

// packagePath extracts the import path from a fully qualified function name
// such as "github.com/acme/app/worker.(*Pool).run.func1". The linker escapes
// dots in the last path element as "%2e".
func packagePath(function string) string {
	if i := strings.IndexByte(function, '['); i >= 0 {
		function = function[:i]
	}
	lastSlash := strings.LastIndexByte(function, '/')
	if dot := strings.IndexByte(function[lastSlash+1:], '.'); dot >= 0 {
		function = function[:lastSlash+1+dot]
	}
	return strings.ReplaceAll(function, "%2e", ".")
}

// logDiagnostic emits internal diagnostic messages, guarding against nil
// loggers in tests.
func logDiagnostic(logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}
