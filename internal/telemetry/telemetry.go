// Package telemetry instruments density estimation with OpenTelemetry
// traces and metrics. Without a configured provider the global no-op
// implementations are used.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/cwbudde/algo-rnd/rnd"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/density"
)

const instrumentationName = "github.com/cwbudde/algo-rnd"

// Attribute keys.
const (
	AttrMethod     = attribute.Key("rnd.method")
	AttrUnderlying = attribute.Key("rnd.underlying")
	AttrMaturity   = attribute.Key("rnd.maturity")
	AttrStrikes    = attribute.Key("rnd.strikes")
	AttrGridPoints = attribute.Key("rnd.grid_points")
	AttrMass       = attribute.Key("rnd.mass")
)

var (
	meter  = otel.Meter(instrumentationName, metric.WithInstrumentationVersion(rnd.Version))
	tracer = otel.Tracer(instrumentationName, trace.WithInstrumentationVersion(rnd.Version))

	EstimatesCompleted, _ = meter.Int64Counter(
		"rnd.estimates.completed",
		metric.WithDescription("Number of densities estimated"),
		metric.WithUnit("{density}"),
	)

	EstimatesFailed, _ = meter.Int64Counter(
		"rnd.estimates.failed",
		metric.WithDescription("Number of failed density estimates"),
		metric.WithUnit("{density}"),
	)

	EstimateDuration, _ = meter.Float64Histogram(
		"rnd.estimates.duration",
		metric.WithDescription("Density estimation duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000),
	)
)

// WrapEstimator wraps an estimator so that every Estimate call runs in a
// span named after the method and updates the estimate metrics.
//
//	est = telemetry.WrapEstimator(est)
//	d, err := est.Estimate(ctx, c)
func WrapEstimator(next density.Estimator) density.Estimator {
	return &estimator{next: next, tracer: tracer}
}

type estimator struct {
	next   density.Estimator
	tracer trace.Tracer
}

func (e *estimator) Name() string { return e.next.Name() }

func (e *estimator) Estimate(ctx context.Context, c *chain.Chain) (*density.Density, error) {
	attrs := []attribute.KeyValue{AttrMethod.String(e.next.Name())}
	if c != nil {
		attrs = append(attrs,
			AttrUnderlying.String(c.Underlying),
			AttrMaturity.Float64(c.Market.Maturity),
			AttrStrikes.Int(c.Len()),
		)
	}

	ctx, span := e.tracer.Start(ctx, "density.estimate "+e.next.Name(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	start := time.Now()
	d, err := e.next.Estimate(ctx, c)
	EstimateDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000,
		metric.WithAttributes(AttrMethod.String(e.next.Name())))

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		EstimatesFailed.Add(ctx, 1, metric.WithAttributes(AttrMethod.String(e.next.Name())))
		return d, err
	}

	span.SetAttributes(AttrGridPoints.Int(d.Len()), AttrMass.Float64(d.Mass()))
	span.SetStatus(codes.Ok, "")
	EstimatesCompleted.Add(ctx, 1, metric.WithAttributes(AttrMethod.String(e.next.Name())))
	return d, nil
}
