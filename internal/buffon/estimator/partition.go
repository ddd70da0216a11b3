package estimator

// Partition splits total into numTasks chunk sizes. Every chunk gets
// total/numTasks points and the last one also takes the remainder, so the
// sizes always sum to total. Chunks may be empty when numTasks > total.
func Partition(total int64, numTasks int) []int64 {
	if numTasks < 1 || total < 0 {
		return nil
	}

	per := total / int64(numTasks)
	chunks := make([]int64, numTasks)
	for i := range chunks {
		chunks[i] = per
	}
	chunks[numTasks-1] += total % int64(numTasks)
	return chunks
}

// Sum adds per-chunk hit counts. The result does not depend on order.
func Sum(hits []int64) int64 {
	var total int64
	for _, h := range hits {
		total += h
	}
	return total
}

// Ratio converts a hit count into a π estimate
func Ratio(hits, total int64) float64 {
	return 4.0 * float64(hits) / float64(total)
}
