// Package metrics counts engine activity with Prometheus collectors.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Outcome labels for remote calls.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Recorder receives engine events. The engine calls it from reconciliation
// goroutines, so implementations must be safe for concurrent use.
type Recorder interface {
	// Optimistic counts a local mutation applied before any remote call.
	Optimistic(action string)
	// Remote counts a finished remote call by operation and outcome.
	Remote(op, outcome string)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Optimistic(string)      {}
func (Nop) Remote(string, string) {}

// Prometheus is a Recorder backed by two counter vectors.
type Prometheus struct {
	registry   *prometheus.Registry
	optimistic *prometheus.CounterVec
	remote     *prometheus.CounterVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them on a private
// registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		optimistic: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pinboard",
			Name:      "optimistic_mutations_total",
			Help:      "Local mutations applied before remote confirmation.",
		}, []string{"action"}),
		remote: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pinboard",
			Name:      "remote_calls_total",
			Help:      "Remote store calls by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	p.registry.MustRegister(p.optimistic, p.remote)
	return p
}

func (p *Prometheus) Optimistic(action string) {
	p.optimistic.WithLabelValues(action).Inc()
}

func (p *Prometheus) Remote(op, outcome string) {
	p.remote.WithLabelValues(op, outcome).Inc()
}

// Registry exposes the registry for scraping or tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// WriteText writes every collected metric in the Prometheus text format.
func (p *Prometheus) WriteText(w io.Writer) error {
	families, err := p.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
