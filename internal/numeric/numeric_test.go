package numeric

import (
	"math"
	"testing"
)

func TestClampAndLerp(t *testing.T) {
	if got := Clamp(120, 0, 100); got != 100 {
		t.Fatalf("Clamp high = %v", got)
	}
	if got := Clamp(-3, 0, 100); got != 0 {
		t.Fatalf("Clamp low = %v", got)
	}
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Fatalf("Lerp = %v", got)
	}
}

func TestTweenDomainEndpoints(t *testing.T) {
	from := [2]float64{0, 10}
	to := [2]float64{20, 40}
	if got := TweenDomain(from, to, 0); got != from {
		t.Fatalf("t=0 got %v", got)
	}
	if got := TweenDomain(from, to, 1); got != to {
		t.Fatalf("t=1 got %v", got)
	}
	mid := TweenDomain(from, to, 0.5)
	if mid[0] != 10 || mid[1] != 25 {
		t.Fatalf("t=0.5 got %v", mid)
	}
}

func TestPaddedDomain(t *testing.T) {
	if got := PaddedDomain(nil); got != [2]float64{0, 1} {
		t.Fatalf("empty = %v", got)
	}
	got := PaddedDomain([]float64{0, 100})
	if got[0] != -5 || got[1] != 105 {
		t.Fatalf("span pad = %v", got)
	}
	flat := PaddedDomain([]float64{0, 0})
	if !(flat[0] < 0 && flat[1] > 0) {
		t.Fatalf("flat zero domain not widened: %v", flat)
	}
	if got := PaddedDomain([]float64{1, math.NaN()}); got != [2]float64{0, 1} {
		t.Fatalf("NaN domain = %v", got)
	}
}

func TestPercentPaddedDomain(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
		want [2]float64
	}{
		{"empty", nil, [2]float64{0, 100}},
		{"all NaN", []float64{math.NaN()}, [2]float64{0, 100}},
		{"clamped", []float64{2, 98}, [2]float64{0, 100}},
		{"padded", []float64{20, 60}, [2]float64{18, 62}},
		{"single", []float64{50}, [2]float64{47, 53}},
		{"small single", []float64{10}, [2]float64{9, 11}},
	}
	for _, tc := range cases {
		if got := PercentPaddedDomain(tc.in); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHashString(t *testing.T) {
	if got := HashString(""); got != 0 {
		t.Fatalf("empty hash = %d", got)
	}
	if got := HashString("a"); got != 97 {
		t.Fatalf("hash(a) = %d", got)
	}
	if got := HashString("ab"); got != 97*31+98 {
		t.Fatalf("hash(ab) = %d", got)
	}
	// Long inputs wrap around int32; the result must still be stable.
	s := "Chevrolet Tahoe|0.123|-4.5|3"
	if HashString(s) != HashString(s) {
		t.Fatalf("hash not deterministic")
	}
}
