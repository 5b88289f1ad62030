package rewards

import "math"

// zScores normalizes the scores to zero mean and unit variance. Batches too
// small or too uniform to normalize come back as all zeros.
func zScores(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) < 2 {
		return out
	}
	var mean float64
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	std := math.Sqrt(variance / float64(len(scores)))
	if std == 0 {
		return out
	}
	for i, s := range scores {
		out[i] = (s - mean) / std
	}
	return out
}
