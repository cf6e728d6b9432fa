// Package metrics collects per-step simulation statistics through the
// world observer hook.
package metrics

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

// Metric samples the world once per completed step.
type Metric interface {
	Name() string
	Observe(w *world.World, step uint64, t scalar.Real)
	Value() scalar.Real
	Reset()
}

// Recorder fans steps out to a set of metrics and keeps the per-step value
// series for plotting. It implements world.Observer.
type Recorder struct {
	metrics []Metric
	series  map[string][]scalar.Real
}

func NewRecorder(metrics ...Metric) *Recorder {
	return &Recorder{
		metrics: metrics,
		series:  make(map[string][]scalar.Real),
	}
}

func (r *Recorder) OnStep(w *world.World, step uint64, t scalar.Real) {
	for _, m := range r.metrics {
		m.Observe(w, step, t)
		r.series[m.Name()] = append(r.series[m.Name()], m.Value())
	}
}

// Series returns the recorded per-step values for one metric.
func (r *Recorder) Series(name string) []scalar.Real {
	return r.series[name]
}

// Values returns the latest value of every metric.
func (r *Recorder) Values() map[string]scalar.Real {
	out := make(map[string]scalar.Real, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
	r.series = make(map[string][]scalar.Real)
}
