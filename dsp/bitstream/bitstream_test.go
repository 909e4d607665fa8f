package bitstream

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"
)

func randomBits(seed int64, n int) []bool {
	rng := rand.New(rand.NewSource(seed))
	out := make([]bool, n)
	for i := range out {
		out[i] = rng.Intn(2) == 1
	}
	return out
}

func squareBits(n, period int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = i%period < period/2
	}
	return out
}

func load[T Word](t *testing.T, src []bool) *Bitstream[T] {
	t.Helper()

	b, err := New[T](len(src))
	if err != nil {
		t.Fatalf("New(%d): %v", len(src), err)
	}

	for i, v := range src {
		b.Set(i, v)
	}

	return b
}

// naiveDistance compares bit by bit over the same overlap as Distance.
func naiveDistance(src []bool, overlap, lag int) int {
	d := 0
	for i := range overlap {
		if src[i] != src[i+lag] {
			d++
		}
	}
	return d
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() error
		wantErr bool
	}{
		{"uint8 1024", func() error { _, err := New[uint8](1024); return err }, false},
		{"uint64 1024", func() error { _, err := New[uint64](1024); return err }, false},
		{"uint8 minimum", func() error { _, err := New[uint8](32); return err }, false},
		{"uint64 minimum", func() error { _, err := New[uint64](256); return err }, false},
		{"not power of two", func() error { _, err := New[uint32](1000); return err }, true},
		{"zero", func() error { _, err := New[uint32](0); return err }, true},
		{"negative", func() error { _, err := New[uint32](-64); return err }, true},
		{"too few words", func() error { _, err := New[uint64](128); return err }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.newFn()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSize) {
					t.Fatalf("err=%v, want ErrInvalidSize", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestWordBits(t *testing.T) {
	if got := WordBits[uint8](); got != 8 {
		t.Errorf("uint8: %d", got)
	}
	if got := WordBits[uint16](); got != 16 {
		t.Errorf("uint16: %d", got)
	}
	if got := WordBits[uint32](); got != 32 {
		t.Errorf("uint32: %d", got)
	}
	if got := WordBits[uint64](); got != 64 {
		t.Errorf("uint64: %d", got)
	}
	if got := WordBits[uint](); got != 32 && got != 64 {
		t.Errorf("uint: %d", got)
	}
}

func TestGeometry(t *testing.T) {
	b, err := New[uint16](1024)
	if err != nil {
		t.Fatal(err)
	}

	if b.Len() != 1024 || b.WordBits() != 16 || b.Words() != 64 {
		t.Fatalf("Len=%d WordBits=%d Words=%d", b.Len(), b.WordBits(), b.Words())
	}

	if got := b.OverlapBits(); got != 31*16 {
		t.Fatalf("OverlapBits=%d, want %d", got, 31*16)
	}
}

func TestSetGetClear(t *testing.T) {
	src := randomBits(1, 512)
	b := load[uint32](t, src)

	for i, want := range src {
		if got := b.Get(i); got != want {
			t.Fatalf("Get(%d)=%v, want %v", i, got, want)
		}
	}

	b.Set(3, true)
	b.Set(3, false)
	if b.Get(3) {
		t.Fatal("Set(3, false) left bit set")
	}

	b.Clear()
	for i := range src {
		if b.Get(i) {
			t.Fatalf("bit %d set after Clear", i)
		}
	}
}

func TestPopCount(t *testing.T) {
	b, err := New[uint8](64)
	if err != nil {
		t.Fatal(err)
	}

	if got := b.PopCount(0xff); got != 8 {
		t.Fatalf("PopCount(0xff)=%d", got)
	}
	if got := b.PopCount(0x81); got != 2 {
		t.Fatalf("PopCount(0x81)=%d", got)
	}
}

func testDistanceMatchesNaive[T Word](t *testing.T) {
	t.Helper()

	src := randomBits(42, 1024)
	b := load[T](t, src)
	m := b.OverlapBits()

	for lag := range b.Len() / 2 {
		want := naiveDistance(src, m, lag)
		if got := b.Distance(lag); got != want {
			t.Fatalf("W=%d Distance(%d)=%d, want %d", b.WordBits(), lag, got, want)
		}
	}
}

func TestDistanceMatchesNaive(t *testing.T) {
	t.Run("uint8", testDistanceMatchesNaive[uint8])
	t.Run("uint16", testDistanceMatchesNaive[uint16])
	t.Run("uint32", testDistanceMatchesNaive[uint32])
	t.Run("uint64", testDistanceMatchesNaive[uint64])
	t.Run("uint", testDistanceMatchesNaive[uint])
}

func TestDistanceOverlapDependsOnWordWidth(t *testing.T) {
	src := squareBits(1024, 100)
	narrow := load[uint8](t, src)
	wide := load[uint64](t, src)

	if narrow.OverlapBits() != 504 || wide.OverlapBits() != 448 {
		t.Fatalf("OverlapBits: uint8=%d uint64=%d", narrow.OverlapBits(), wide.OverlapBits())
	}

	for _, lag := range []int{1, 37, 100, 250, 511} {
		if got, want := narrow.Distance(lag), naiveDistance(src, 504, lag); got != want {
			t.Errorf("uint8 Distance(%d)=%d, want %d", lag, got, want)
		}
		if got, want := wide.Distance(lag), naiveDistance(src, 448, lag); got != want {
			t.Errorf("uint64 Distance(%d)=%d, want %d", lag, got, want)
		}
	}
}

func TestDistancePeriodicPattern(t *testing.T) {
	const period = 64

	b := load[uint64](t, squareBits(1024, period))
	m := b.OverlapBits()

	for _, k := range []int{1, 2, 3, 4, 5, 6, 7} {
		if got := b.Distance(k * period); got != 0 {
			t.Fatalf("Distance(%d)=%d, want 0 at a multiple of the period", k*period, got)
		}
	}

	if got := b.Distance(period / 2); got != m {
		t.Fatalf("Distance(half period)=%d, want %d", got, m)
	}

	if got := b.Distance(0); got != 0 {
		t.Fatalf("Distance(0)=%d, want 0", got)
	}
}

// TestDistanceMatchesFFTCorrelation checks the bit-level distance against an
// FFT cross-correlation of the same bits mapped to +1/-1.
func TestDistanceMatchesFFTCorrelation(t *testing.T) {
	const n = 1024

	src := randomBits(99, n)
	b := load[uint64](t, src)
	m := b.OverlapBits()

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		t.Fatalf("NewPlan64: %v", err)
	}

	head := make([]complex128, n)
	full := make([]complex128, n)
	for i, v := range src {
		s := -1.0
		if v {
			s = 1
		}
		full[i] = complex(s, 0)
		if i < m {
			head[i] = complex(s, 0)
		}
	}

	headFreq := make([]complex128, n)
	fullFreq := make([]complex128, n)
	if err := plan.Forward(headFreq, head); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if err := plan.Forward(fullFreq, full); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	prod := make([]complex128, n)
	for i := range prod {
		h := headFreq[i]
		prod[i] = fullFreq[i] * complex(real(h), -imag(h))
	}

	xcorr := make([]complex128, n)
	if err := plan.Inverse(xcorr, prod); err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	// Lag 0 correlates m matching pairs; use it to fix the transform scale.
	scale := float64(m) / real(xcorr[0])

	b.AutoCorrelate(func(lag, distance int) {
		c := real(xcorr[lag]) * scale
		want := int(math.Round((float64(m) - c) / 2))
		if distance != want {
			t.Fatalf("Distance(%d)=%d, FFT oracle %d", lag, distance, want)
		}
	})
}

func TestDistanceZeroAtPeriodForAllWidths(t *testing.T) {
	src := squareBits(4096, 146)
	widths := []func() int{
		func() int { return load[uint8](t, src).Distance(146) },
		func() int { return load[uint16](t, src).Distance(146) },
		func() int { return load[uint32](t, src).Distance(146) },
		func() int { return load[uint64](t, src).Distance(146) },
	}

	for i, fn := range widths {
		if got := fn(); got != 0 {
			t.Fatalf("width %d: Distance(period)=%d, want 0", i, got)
		}
	}
}

func TestAutoCorrelateOrder(t *testing.T) {
	b := load[uint32](t, randomBits(5, 256))

	next := 1
	b.AutoCorrelate(func(lag, distance int) {
		if lag != next {
			t.Fatalf("lag=%d, want %d", lag, next)
		}
		if distance != b.Distance(lag) {
			t.Fatalf("distance mismatch at lag %d", lag)
		}
		next++
	})

	if next != 128 {
		t.Fatalf("visited lags 1..%d, want 1..127", next-1)
	}
}

func TestCorrelateClampsRange(t *testing.T) {
	b := load[uint8](t, randomBits(6, 256))

	var lags []int
	b.Correlate(-5, 4, func(lag, _ int) { lags = append(lags, lag) })
	if len(lags) != 4 || lags[0] != 1 || lags[3] != 4 {
		t.Fatalf("lags=%v, want [1 2 3 4]", lags)
	}

	lags = lags[:0]
	b.Correlate(125, 500, func(lag, _ int) { lags = append(lags, lag) })
	if len(lags) != 3 || lags[2] != 127 {
		t.Fatalf("lags=%v, want [125 126 127]", lags)
	}

	called := false
	b.Correlate(50, 40, func(int, int) { called = true })
	if called {
		t.Fatal("callback invoked for empty range")
	}
}

func TestDistancePanicsOutOfRange(t *testing.T) {
	b := load[uint64](t, randomBits(8, 256))

	for _, lag := range []int{-1, 128, 1000} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Distance(%d) did not panic", lag)
				}
			}()
			b.Distance(lag)
		}()
	}
}
