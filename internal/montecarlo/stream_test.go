package montecarlo

import "testing"

func TestEstimateStream_Next(t *testing.T) {
	t.Parallel()
	s := NewEstimateStream(Seed{Hi: 1}, nil, 0)

	if got := s.Take(0); got.Defined {
		t.Error("a stream with no draws must be undefined")
	}
	for i := int64(1); i <= 100; i++ {
		e := s.Next()
		if e.Total != i || !e.Defined {
			t.Fatalf("pull %d: got %+v", i, e)
		}
	}
	if s.Accumulator().Total != 100 || !s.Accumulator().Valid() {
		t.Errorf("Accumulator() = %+v", s.Accumulator())
	}
}

func TestEstimateStream_AllStopsWhenConsumerBreaks(t *testing.T) {
	t.Parallel()
	s := NewEstimateStream(Seed{Hi: 2}, nil, DefaultScale)

	var n int
	for e := range s.All() {
		n++
		if e.Total != int64(n) {
			t.Fatalf("estimate %d has Total %d", n, e.Total)
		}
		if n == 500 {
			break
		}
	}
	if s.Accumulator().Total != 500 {
		t.Errorf("stream advanced %d times, want 500", s.Accumulator().Total)
	}
}

// TestEstimateStream_RestartIsNewStream checks that a new stream with the same
// seed replays the same sequence while the old one keeps going.
func TestEstimateStream_RestartIsNewStream(t *testing.T) {
	t.Parallel()
	a := NewEstimateStream(Seed{Hi: 3, Lo: 3}, nil, 0)
	first := a.Take(1000)

	b := NewEstimateStream(Seed{Hi: 3, Lo: 3}, nil, 0)
	if replay := b.Take(1000); replay != first {
		t.Errorf("replay %+v != first %+v", replay, first)
	}
	if next := a.Take(1); next.Total != 1001 {
		t.Errorf("original stream restarted: Total = %d", next.Total)
	}
}

// TestEstimateStream_MatchesWorker checks the lazy variant samples the same
// points as a worker on the same seed.
func TestEstimateStream_MatchesWorker(t *testing.T) {
	t.Parallel()
	seed := Seed{Hi: 11, Lo: 12}
	s := NewEstimateStream(seed, nil, 0)
	s.Take(20_000)

	acc, err := RunWorker(t.Context(), WorkerSpec{Samples: 20_000, Seed: seed})
	if err != nil {
		t.Fatal(err)
	}
	if s.Accumulator() != acc {
		t.Errorf("stream %+v != worker %+v", s.Accumulator(), acc)
	}
}
