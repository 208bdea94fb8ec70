// Package goniometer implements the Mid/Side point transform shared by
// the local render pipeline and the remote-ingest path (§4.10's
// pre-transformed (M,S) pairs use the same formula).
package goniometer

// Point is one normalized (M,S) pair, each component in [-1, +1].
type Point struct {
	M float64 `json:"m"`
	S float64 `json:"s"`
}

// Transform converts a window of L/R samples into goniometer points
// using the same Mid/Side convention as the stereo analyzer:
// M=(L+R)/2, S=(R-L)/2. Both components stay within [-1,+1] whenever
// the input samples do, so no additional normalization is applied.
func Transform(left, right []float32) []Point {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		l := float64(left[i])
		r := float64(right[i])
		points[i] = Point{M: (l + r) / 2, S: (r - l) / 2}
	}
	return points
}

// Decimate keeps only every stride-th point, used to bring a full
// window (4096 points) down to a display-friendly density matching the
// remote probe's 128-point cadence.
func Decimate(points []Point, count int) []Point {
	if count <= 0 || len(points) <= count {
		return points
	}
	stride := len(points) / count
	if stride < 1 {
		stride = 1
	}
	out := make([]Point, 0, count)
	for i := 0; i < len(points) && len(out) < count; i += stride {
		out = append(out, points[i])
	}
	return out
}
