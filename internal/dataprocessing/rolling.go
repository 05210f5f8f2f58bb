package dataprocessing

// DefaultRollingWindow is the month count of the ridership moving average
const DefaultRollingWindow = 12

// CenteredRollingMean returns the centred moving average of values.
//
// For row i the window covers rows i-window/2 .. i+window-window/2-1. Rows
// closer than window/2 to either end of the slice get nil, so the first and
// the last window/2 rows are always undefined.
func CenteredRollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 {
		return out
	}

	lead := window / 2
	trail := window - lead - 1

	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	for i := lead; i < len(values)-lead; i++ {
		lo, hi := i-lead, i+trail
		mean := (prefix[hi+1] - prefix[lo]) / float64(window)
		out[i] = &mean
	}
	return out
}
