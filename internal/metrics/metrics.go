// Package metrics records evaluation counters for export to a Prometheus
// textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives evaluation events.
type Recorder interface {
	IncRetry(model, kind string)
	IncPrompt(model, status string)
	ObserveCall(model string, seconds float64)
}

// Noop implements Recorder without emitting anything.
type Noop struct{}

func (Noop) IncRetry(string, string)     {}
func (Noop) IncPrompt(string, string)    {}
func (Noop) ObserveCall(string, float64) {}

// Prom implements Recorder backed by Prometheus collectors on a private
// registry, so each run starts from zero.
type Prom struct {
	registry     *prometheus.Registry
	retries      *prometheus.CounterVec
	prompts      *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

// NewProm creates the collectors under namespace and registers them.
func NewProm(namespace string) *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Model call retries by model and failure kind",
		}, []string{"model", "kind"}),
		prompts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_total",
			Help:      "Prompts evaluated by model and status",
		}, []string{"model", "status"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Wall time of a model call including retries",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"model"}),
	}
	p.registry.MustRegister(p.retries, p.prompts, p.callDuration)
	return p
}

func (p *Prom) IncRetry(model, kind string) {
	p.retries.WithLabelValues(model, kind).Inc()
}

func (p *Prom) IncPrompt(model, status string) {
	p.prompts.WithLabelValues(model, status).Inc()
}

func (p *Prom) ObserveCall(model string, seconds float64) {
	p.callDuration.WithLabelValues(model).Observe(seconds)
}

// WriteTextfile writes all collected metrics to path in the text exposition
// format, replacing the file atomically.
func (p *Prom) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
