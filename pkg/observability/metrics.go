package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	Port        int
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for the /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.Handler()

	return provider, handler, nil
}

// EngineMetrics carries the counters the lifecycle engine reports per run.
type EngineMetrics struct {
	LoansProcessed metric.Int64Counter
	Transitions    metric.Int64Counter
	LoanErrors     metric.Int64Counter
	RunsCompleted  metric.Int64Counter
}

// NewEngineMetrics registers the lifecycle engine instruments on the meter.
func NewEngineMetrics(meter metric.Meter) (*EngineMetrics, error) {
	processed, err := meter.Int64Counter("loan_engine_loans_processed_total",
		metric.WithDescription("Loans examined by the lifecycle engine"))
	if err != nil {
		return nil, err
	}
	transitions, err := meter.Int64Counter("loan_engine_transitions_total",
		metric.WithDescription("Loan status transitions applied by the lifecycle engine"))
	if err != nil {
		return nil, err
	}
	loanErrors, err := meter.Int64Counter("loan_engine_loan_errors_total",
		metric.WithDescription("Per-loan failures recorded during engine runs"))
	if err != nil {
		return nil, err
	}
	runs, err := meter.Int64Counter("loan_engine_runs_total",
		metric.WithDescription("Completed lifecycle engine runs"))
	if err != nil {
		return nil, err
	}

	return &EngineMetrics{
		LoansProcessed: processed,
		Transitions:    transitions,
		LoanErrors:     loanErrors,
		RunsCompleted:  runs,
	}, nil
}
