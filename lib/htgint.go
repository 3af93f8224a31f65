package lib

import "fmt"
import "math"
import "sort"
import "strconv"
import "strings"

// HistogramInt64 accumulates int64 samples into fixed width buckets,
// along with min, max, mean and deviation. Not thread safe, callers
// are expected to serialize Add() with their own lock.
type HistogramInt64 struct {
	n       int64
	minval  int64
	maxval  int64
	sum     int64
	sumsq   float64
	buckets []int64 // [0] below `from`, [len-1] at or above `till`
	// setup
	from  int64
	till  int64
	width int64
}

// NewhistorgramInt64 return a histogram with buckets of `width`
// between [from, till). Samples outside the range are counted in
// the underflow and overflow buckets.
func NewhistorgramInt64(from, till, width int64) *HistogramInt64 {
	if width <= 0 || till <= from {
		panic(fmt.Errorf("invalid histogram range [%v,%v) width %v", from, till, width))
	}
	from, till = (from/width)*width, (till/width)*width
	h := &HistogramInt64{from: from, till: till, width: width}
	h.buckets = make([]int64, ((till-from)/width)+2)
	return h
}

// Add a sample.
func (h *HistogramInt64) Add(sample int64) {
	if h.n == 0 || sample < h.minval {
		h.minval = sample
	}
	if h.n == 0 || sample > h.maxval {
		h.maxval = sample
	}
	h.n++
	h.sum += sample
	h.sumsq += float64(sample) * float64(sample)

	switch {
	case sample < h.from:
		h.buckets[0]++
	case sample >= h.till:
		h.buckets[len(h.buckets)-1]++
	default:
		h.buckets[1+((sample-h.from)/h.width)]++
	}
}

// Min sample seen so far.
func (h *HistogramInt64) Min() int64 {
	return h.minval
}

// Max sample seen so far.
func (h *HistogramInt64) Max() int64 {
	return h.maxval
}

// Samples count.
func (h *HistogramInt64) Samples() int64 {
	return h.n
}

// Sum of all samples.
func (h *HistogramInt64) Sum() int64 {
	return h.sum
}

// Mean of all samples.
func (h *HistogramInt64) Mean() int64 {
	if h.n == 0 {
		return 0
	}
	return h.sum / h.n
}

// Variance of all samples.
func (h *HistogramInt64) Variance() int64 {
	if h.n == 0 {
		return 0
	}
	mean := float64(h.sum) / float64(h.n)
	return int64((h.sumsq / float64(h.n)) - (mean * mean))
}

// SD standard deviation of all samples.
func (h *HistogramInt64) SD() int64 {
	return int64(math.Sqrt(float64(h.Variance())))
}

// Stats return non-empty buckets, keyed by the bucket's lower bound.
// Underflow bucket is keyed as "-" and overflow bucket as "+".
func (h *HistogramInt64) Stats() map[string]int64 {
	m := make(map[string]int64)
	last := len(h.buckets) - 1
	for i, count := range h.buckets {
		if count == 0 {
			continue
		}
		switch i {
		case 0:
			m["-"] = count
		case last:
			m["+"] = count
		default:
			m[strconv.Itoa(int(h.from+(int64(i-1)*h.width)))] = count
		}
	}
	return m
}

// Fullstats include min, max, mean and deviation along with Stats().
func (h *HistogramInt64) Fullstats() map[string]interface{} {
	hmap := make(map[string]interface{})
	for k, v := range h.Stats() {
		hmap[k] = v
	}
	return map[string]interface{}{
		"samples":     h.Samples(),
		"min":         h.Min(),
		"max":         h.Max(),
		"mean":        h.Mean(),
		"variance":    h.Variance(),
		"stddeviance": h.SD(),
		"histogram":   hmap,
	}
}

// Logstring return Fullstats as a single line, with histogram buckets
// in ascending order.
func (h *HistogramInt64) Logstring() string {
	hist := h.Stats()
	bounds := make([]int, 0, len(hist))
	for k := range hist {
		if n, err := strconv.Atoi(k); err == nil {
			bounds = append(bounds, n)
		}
	}
	sort.Ints(bounds)

	hs := make([]string, 0, len(hist))
	if v, ok := hist["-"]; ok {
		hs = append(hs, fmt.Sprintf(`"-": %v`, v))
	}
	for _, n := range bounds {
		hs = append(hs, fmt.Sprintf(`"%v": %v`, n, hist[strconv.Itoa(n)]))
	}
	if v, ok := hist["+"]; ok {
		hs = append(hs, fmt.Sprintf(`"+": %v`, v))
	}
	fmsg := `{"samples": %v, "min": %v, "max": %v, "mean": %v, ` +
		`"stddeviance": %v, "histogram": {%v}}`
	return fmt.Sprintf(
		fmsg, h.n, h.minval, h.maxval, h.Mean(), h.SD(), strings.Join(hs, ", "),
	)
}
