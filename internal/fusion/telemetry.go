/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fusion

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloudwego/statefuse/internal/ir"
)

var (
	tracer = otel.Tracer("statefuse.fusion")
	meter  = otel.Meter("statefuse.fusion")
)

var (
	fusionsTotal    metric.Int64Counter
	rejectionsTotal metric.Int64Counter
	orderingTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		fusionsTotal, err = meter.Int64Counter(
			"statefuse_fusions_total",
			metric.WithDescription("Total number of fused state pairs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		rejectionsTotal, err = meter.Int64Counter(
			"statefuse_rejections_total",
			metric.WithDescription("Total number of rejected candidates by reason"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		orderingTotal, err = meter.Int64Counter(
			"statefuse_ordering_edges_total",
			metric.WithDescription("Total number of ordering edges inserted into fused states"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordFusion(ctx context.Context, ordering int) {
	if err := initMetrics(); err != nil {
		return
	}
	fusionsTotal.Add(ctx, 1)
	if ordering != 0 {
		orderingTotal.Add(ctx, int64(ordering))
	}
}

func recordRejection(ctx context.Context, reason Reason) {
	if err := initMetrics(); err != nil {
		return
	}
	rejectionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason.String())))
}

func startFuseSpan(ctx context.Context, a ir.StateID, b ir.StateID) (context.Context, trace.Span) {
	return tracer.Start(ctx, "StateFusion.TryFuse",
		trace.WithAttributes(
			attribute.Int("statefuse.first", int(a)),
			attribute.Int("statefuse.second", int(b)),
		),
	)
}

func startApplySpan(ctx context.Context, p *ir.Program) (context.Context, trace.Span) {
	return tracer.Start(ctx, "StateFusion.ApplyRepeated",
		trace.WithAttributes(
			attribute.String("statefuse.program", p.Name),
			attribute.Int("statefuse.states", p.NumStates()),
		),
	)
}
