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
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPackagePath(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{in: "main.main", want: "main"},
		{in: "github.com/acme/app/worker.(*Pool).run.func1", want: "github.com/acme/app/worker"},
		{in: "github.com/acme/app/worker.Run", want: "github.com/acme/app/worker"},
		{in: "github.com/acme/app.v2/db.Open", want: "github.com/acme/app.v2/db"},
		{in: "github.com/acme/app/list.Map[...]", want: "github.com/acme/app/list"},
		{in: "github.com/acme/app/list.Map[github.com/acme/x.T].f1", want: "github.com/acme/app/list"},
		{in: "gopkg.in/yaml%2ev3.Unmarshal", want: "gopkg.in/yaml.v3"},
		{in: "runtime", want: "runtime"},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := packagePath(tc.in); got != tc.want {
			t.Errorf("packagePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHasModulePrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		id, prefix string
		want       bool
	}{
		{id: "app", prefix: "app", want: true},
		{id: "app/db", prefix: "app", want: true},
		{id: "app.db", prefix: "app", want: true},
		{id: "app::db", prefix: "app", want: true},
		{id: "app:db", prefix: "app", want: false},
		{id: "apple", prefix: "app", want: false},
		{id: "ap", prefix: "app", want: false},
		{id: "anything", prefix: "", want: true},
	}
	for _, tc := range cases {
		if got := hasModulePrefix(tc.id, tc.prefix); got != tc.want {
			t.Errorf("hasModulePrefix(%q, %q) = %v, want %v", tc.id, tc.prefix, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"trace":   slog.LevelDebug - 4,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"-2":      slog.Level(-2),
	}
	for in, want := range cases {
		got, ok := parseLevel(in)
		if !ok || got != want {
			t.Errorf("parseLevel(%q) = %v, %v; want %v, true", in, got, ok, want)
		}
	}
	if _, ok := parseLevel("loud"); ok {
		t.Errorf("parseLevel(loud) succeeded")
	}
}

func TestMetricsObserveDecisions(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics() returned %v, want nil", err)
	}

	filter := NewBuilder().WithFallback(NewLevelFilter(slog.LevelWarn)).Build()
	logger := slog.New(NewHandler(slog.DiscardHandler, filter, WithMetrics(m)))

	for i := 0; i < 3; i++ {
		logger.Info("dropped")
	}
	logger.Error("kept")

	if got := testutil.ToFloat64(m.decisions.WithLabelValues("never", "rejected")); got != 3 {
		t.Errorf("never/rejected = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.decisions.WithLabelValues("always", "admitted")); got != 1 {
		t.Errorf("always/admitted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.callsites.WithLabelValues("never")); got != 1 {
		t.Errorf("never call sites = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.decisions); got != 2 {
		t.Errorf("decision series = %d, want 2", got)
	}

	if _, err := NewMetrics(reg); err == nil {
		t.Errorf("second NewMetrics() on the same registry returned nil error")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.observeDecision(InterestAlways, true)
	m.observeCallsite(InterestNever)

	unregistered, err := NewMetrics(nil)
	if err != nil || unregistered == nil {
		t.Fatalf("NewMetrics(nil) = %v, %v; want metrics, nil", unregistered, err)
	}
}

func TestHandlerLogsCallSiteRegistration(t *testing.T) {
	t.Parallel()

	diag := &countingHandler{}
	h := NewHandler(slog.DiscardHandler, NewBuilder().Build(), WithInternalLogger(slog.New(diag)))
	for i := 0; i < 2; i++ {
		if err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0)); err != nil {
			t.Fatalf("Handle() returned %v, want nil", err)
		}
	}
	if got := diag.count.Load(); got != 1 {
		t.Fatalf("internal logger received %d records, want 1", got)
	}
}

type countingHandler struct {
	count atomic.Int64
}

func (c *countingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (c *countingHandler) Handle(context.Context, slog.Record) error {
	c.count.Add(1)
	return nil
}

func (c *countingHandler) WithAttrs([]slog.Attr) slog.Handler { return c }

func (c *countingHandler) WithGroup(string) slog.Handler { return c }
