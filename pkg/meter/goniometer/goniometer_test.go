package goniometer

import "testing"

func TestTransformMonoCollapsesToSideZero(t *testing.T) {
	l := []float32{0.5, -0.3, 0.9}
	r := []float32{0.5, -0.3, 0.9}
	points := Transform(l, r)

	for i, p := range points {
		if p.S != 0 {
			t.Errorf("point %d: side = %v, want 0 for mono input", i, p.S)
		}
		if p.M != float64(l[i]) {
			t.Errorf("point %d: mid = %v, want %v", i, p.M, l[i])
		}
	}
}

func TestDecimateReducesCount(t *testing.T) {
	points := make([]Point, 4096)
	out := Decimate(points, 128)
	if len(out) > 128 {
		t.Errorf("decimated length = %d, want <= 128", len(out))
	}
}

func TestDecimateNoOpWhenAlreadySmall(t *testing.T) {
	points := make([]Point, 10)
	out := Decimate(points, 128)
	if len(out) != 10 {
		t.Errorf("decimated length = %d, want 10 (no-op)", len(out))
	}
}
