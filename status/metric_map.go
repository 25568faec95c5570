package status

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// metricSet is an immutable generation of a MetricMap
type metricSet[T any] struct {
	items map[string]*T
	names []string // sorted
}

// MetricMap maps names to lazily allocated values of T. Lookups read the
// current generation without locking; registering a name publishes a copy.
// Callers cache the returned pointer and update it without locking.
type MetricMap[T any] struct {
	mu  sync.Mutex
	cur atomic.Pointer[metricSet[T]]
}

func NewMetricMap[T any]() *MetricMap[T] {
	m := &MetricMap[T]{}
	m.cur.Store(&metricSet[T]{items: map[string]*T{}})
	return m
}

// Get returns the value for name, allocating it on first use
func (m *MetricMap[T]) Get(name string) *T {
	if p, ok := m.cur.Load().items[name]; ok {
		return p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.cur.Load()
	if p, ok := set.items[name]; ok {
		return p
	}

	p := new(T)
	items := maps.Clone(set.items)
	items[name] = p
	i, _ := slices.BinarySearch(set.names, name)
	names := slices.Insert(slices.Clone(set.names), i, name)
	m.cur.Store(&metricSet[T]{items: items, names: names})
	return p
}

func (m *MetricMap[T]) Has(name string) bool {
	_, ok := m.cur.Load().items[name]
	return ok
}

// Range visits every entry registered so far, in name order
func (m *MetricMap[T]) Range(fn func(name string, v *T)) {
	set := m.cur.Load()
	for _, k := range set.names {
		fn(k, set.items[k])
	}
}

func (m *MetricMap[T]) Len() int {
	return len(m.cur.Load().names)
}
