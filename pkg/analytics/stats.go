// pkg/analytics/stats.go
package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// percentile computes the p-th percentile with linear interpolation between
// the two nearest order statistics. Callers guarantee a non-empty input.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	h := float64(len(sorted)-1) * p / 100
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

func median(values []float64) float64 {
	return percentile(values, 50)
}

func mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// popStdDev is the population standard deviation (divisor n, not n-1).
func popStdDev(values []float64) float64 {
	return stat.PopStdDev(values, nil)
}

func popVariance(values []float64) float64 {
	return stat.PopVariance(values, nil)
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// countBelow counts values strictly less than the bound.
func countBelow(values []float64, bound float64) int {
	n := 0
	for _, v := range values {
		if v < bound {
			n++
		}
	}
	return n
}

// countAbove counts values strictly greater than the bound.
func countAbove(values []float64, bound float64) int {
	n := 0
	for _, v := range values {
		if v > bound {
			n++
		}
	}
	return n
}

// countOutside counts values outside the closed interval [lo, hi].
func countOutside(values []float64, lo, hi float64) int {
	n := 0
	for _, v := range values {
		if v < lo || v > hi {
			n++
		}
	}
	return n
}

// histogram buckets values into len(edges)-1 bins. Every bin is half-open
// [edges[i], edges[i+1]) except the last, which also includes its upper edge.
// Values outside the edge range are not counted.
func histogram(values []float64, edges []float64) []int {
	counts := make([]int, len(edges)-1)
	last := len(counts) - 1

	for _, v := range values {
		for i := 0; i < len(counts); i++ {
			if v >= edges[i] && (v < edges[i+1] || (i == last && v == edges[i+1])) {
				counts[i]++
				break
			}
		}
	}
	return counts
}
