package status

import (
	"strings"
	"sync"
	"testing"
)

func TestMetricMapGetCaches(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	a := m.Get("rate")
	a.Store(2.5)
	if b := m.Get("rate"); b != a {
		t.Error("Expected the same pointer on second Get")
	}
	if got := m.Get("rate").Load(); got != 2.5 {
		t.Errorf("Expected 2.5, got %v", got)
	}
	if m.Has("missing") {
		t.Error("Expected missing key to be absent")
	}
}

func TestMetricMapConcurrentGet(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Ints.Get("frames").Add(1)
			}
		}()
	}
	wg.Wait()
	if got := r.Ints.Get("frames").Load(); got != 800 {
		t.Errorf("Expected 800, got %d", got)
	}
	if r.Ints.Len() != 1 {
		t.Errorf("Expected 1 metric, got %d", r.Ints.Len())
	}
}

func TestMetricMapRangeSeesGeneration(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	for _, name := range []string{"c", "a", "b"} {
		m.Get(name)
	}

	var names []string
	m.Range(func(name string, _ *AtomicFloat) {
		names = append(names, name)
		// registering during Range lands in the next generation
		m.Get("z" + name)
	})
	if got := strings.Join(names, ","); got != "a,b,c" {
		t.Errorf("Expected a,b,c, got %s", got)
	}
	if m.Len() != 6 {
		t.Errorf("Expected 6 metrics, got %d", m.Len())
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Errorf("Expected empty zero value, got %q", s.Load())
	}
	s.Store("0123456789012345678901234567890123456789")
	if len(s.Load()) != MaxStringLen {
		t.Errorf("Expected length %d, got %d", MaxStringLen, len(s.Load()))
	}
}

func TestRegistrySnapshotSorted(t *testing.T) {
	r := NewRegistry()
	r.Strings.Get("loop.state").Store("running")
	r.Floats.Get("loop.frame_rate").Store(59.94)
	r.Ints.Get("render.draw_calls").Store(12)
	r.Bools.Get("input.native").Store(true)

	want := []Entry{
		{"input.native", "true"},
		{"loop.frame_rate", "59.9"},
		{"loop.state", "running"},
		{"render.draw_calls", "12"},
	}
	got := r.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
