package status

import (
	"cmp"
	"slices"
	"strconv"
	"sync/atomic"
)

// Registry collects named runtime diagnostics.
// Producers cache pointers at setup and write atomics on their hot path.
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

func (r *Registry) Len() int {
	return r.Bools.Len() + r.Ints.Len() + r.Floats.Len() + r.Strings.Len()
}

// Entry is one formatted diagnostic
type Entry struct {
	Name  string
	Value string
}

// Snapshot formats every metric, sorted by name
func (r *Registry) Snapshot() []Entry {
	out := make([]Entry, 0, r.Len())
	r.Bools.Range(func(name string, v *atomic.Bool) {
		out = append(out, Entry{name, strconv.FormatBool(v.Load())})
	})
	r.Ints.Range(func(name string, v *atomic.Int64) {
		out = append(out, Entry{name, strconv.FormatInt(v.Load(), 10)})
	})
	r.Floats.Range(func(name string, v *AtomicFloat) {
		out = append(out, Entry{name, strconv.FormatFloat(v.Load(), 'f', 1, 64)})
	})
	r.Strings.Range(func(name string, v *AtomicString) {
		out = append(out, Entry{name, v.Load()})
	})
	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
