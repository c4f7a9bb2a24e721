package db

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/dmitrymomot/hostkit/pkg/db"

// Transaction outcomes recorded by the envelope.
const (
	OutcomeCommit      = "commit"
	OutcomeRollback    = "rollback"
	OutcomeBeginError  = "begin_error"
	OutcomeCommitError = "commit_error"
)

type envelopeMetrics struct {
	transactions metric.Int64Counter
	duration     metric.Float64Histogram
}

func newEnvelopeMetrics(mp metric.MeterProvider) *envelopeMetrics {
	meter := mp.Meter(meterName)

	// Creation only fails for invalid instrument names, and these are constants.
	transactions, _ := meter.Int64Counter("db.envelope.transactions",
		metric.WithDescription("Envelope transactions by outcome"),
	)
	duration, _ := meter.Float64Histogram("db.envelope.duration",
		metric.WithDescription("Time from begin to commit or rollback"),
		metric.WithUnit("s"),
	)

	return &envelopeMetrics{transactions: transactions, duration: duration}
}

func (m *envelopeMetrics) record(ctx context.Context, name, outcome string, started time.Time) {
	if m == nil || m.transactions == nil || m.duration == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("call", name),
		attribute.String("outcome", outcome),
	)
	m.transactions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(started).Seconds(), attrs)
}
