package lib

import "math"

// AverageInt64 running mean and deviation of int64 samples, without
// keeping the samples. Not thread safe.
type AverageInt64 struct {
	n      int64
	minval int64
	maxval int64
	sum    int64
	sumsq  float64
}

// Add a sample.
func (av *AverageInt64) Add(sample int64) {
	if av.n == 0 || sample < av.minval {
		av.minval = sample
	}
	if av.n == 0 || sample > av.maxval {
		av.maxval = sample
	}
	av.n++
	av.sum += sample
	av.sumsq += float64(sample) * float64(sample)
}

func (av *AverageInt64) Min() int64 {
	return av.minval
}

func (av *AverageInt64) Max() int64 {
	return av.maxval
}

func (av *AverageInt64) Samples() int64 {
	return av.n
}

func (av *AverageInt64) Sum() int64 {
	return av.sum
}

func (av *AverageInt64) Mean() int64 {
	if av.n == 0 {
		return 0
	}
	return av.sum / av.n
}

func (av *AverageInt64) Variance() int64 {
	if av.n == 0 {
		return 0
	}
	mean := float64(av.sum) / float64(av.n)
	return int64((av.sumsq / float64(av.n)) - (mean * mean))
}

func (av *AverageInt64) SD() int64 {
	return int64(math.Sqrt(float64(av.Variance())))
}

// Stats as a map, suitable for json.
func (av *AverageInt64) Stats() map[string]interface{} {
	return map[string]interface{}{
		"samples":     av.Samples(),
		"min":         av.Min(),
		"max":         av.Max(),
		"mean":        av.Mean(),
		"variance":    av.Variance(),
		"stddeviance": av.SD(),
	}
}
