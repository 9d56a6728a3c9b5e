package scoring

// CalibrationPoints rewards accurate confidence self-assessment: high
// confidence on a correct answer, low confidence on a wrong one. The result
// is always in [0, 10]. Confidence outside [0, 100] is clamped, not rejected.
func CalibrationPoints(correct bool, confidencePct int) int {
	c := confidencePct
	if c < 0 {
		c = 0
	}
	if c > 100 {
		c = 100
	}
	if correct {
		return c / 10
	}
	return (100 - c) / 10
}
