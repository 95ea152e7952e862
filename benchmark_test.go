package dux

import (
	"testing"
)

func BenchmarkDispatch(b *testing.B) {
	store, err := New(searchReducer)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Dispatch(recordVisit{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDispatchMux(b *testing.B) {
	mux := NewMux[searchState]()
	MustHandle(mux, func(s searchState, a recordVisit) (searchState, error) {
		s.Visits++
		return s, nil
	})
	store, err := New(mux.Reducer())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Dispatch(recordVisit{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDispatchWithSubscribers(b *testing.B) {
	benches := []struct {
		name  string
		count int
	}{
		{"1 subscriber", 1},
		{"10 subscribers", 10},
		{"100 subscribers", 100},
	}
	for _, bench := range benches {
		b.Run(bench.name, func(b *testing.B) {
			store, err := New(searchReducer)
			if err != nil {
				b.Fatal(err)
			}
			for i := 0; i < bench.count; i++ {
				store.Subscribe(func() {})
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := store.Dispatch(recordVisit{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkGetState(b *testing.B) {
	store, err := NewWithState(searchReducer, searchState{SearchTerm: "dare"})
	if err != nil {
		b.Fatal(err)
	}

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = store.GetState()
		}
	})
}

func BenchmarkGoroutineID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = goroutineID()
	}
}
