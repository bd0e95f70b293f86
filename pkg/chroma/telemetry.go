package chroma

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// telemetry records one log line and one sample per HTTP round trip
// against the server. Logger and registry are both optional; with
// neither configured it does nothing.
type telemetry struct {
	logger   *slog.Logger
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newTelemetry(logger *slog.Logger, reg prometheus.Registerer) (*telemetry, error) {
	t := &telemetry{logger: logger}
	if reg == nil {
		return t, nil
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chromactl",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Chroma HTTP requests by operation and status code.",
	}, []string{"operation", "code"})
	if err := reg.Register(requests); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, fmt.Errorf("chroma: register request counter: %w", err)
		}
		// Another client on the same registry got here first.
		requests = are.ExistingCollector.(*prometheus.CounterVec)
	}

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chromactl",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Chroma HTTP request latency by operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	if err := reg.Register(latency); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, fmt.Errorf("chroma: register latency histogram: %w", err)
		}
		latency = are.ExistingCollector.(*prometheus.HistogramVec)
	}

	t.requests = requests
	t.latency = latency
	return t, nil
}

// roundTrip records one completed request. code is the HTTP status, or 0
// when the request never produced a response.
func (t *telemetry) roundTrip(op, method string, code int, elapsed time.Duration, err error) {
	if t == nil {
		return
	}

	if t.requests != nil {
		t.requests.WithLabelValues(op, strconv.Itoa(code)).Inc()
		t.latency.WithLabelValues(op).Observe(elapsed.Seconds())
	}

	if t.logger == nil {
		return
	}
	if err != nil {
		t.logger.Warn("chroma request failed",
			"operation", op,
			"method", method,
			"code", code,
			"elapsed", elapsed,
			"err", err,
		)
		return
	}
	t.logger.Debug("chroma request",
		"operation", op,
		"method", method,
		"code", code,
		"elapsed", elapsed,
	)
}
