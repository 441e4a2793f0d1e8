// Package stats holds the small amount of statistics the insights dashboard
// shows alongside raw counts.
package stats

import "math"

// Interval is a confidence interval for a proportion, bounds in [0, 1].
type Interval struct {
	Rate  float64
	Lower float64
	Upper float64
}

// WilsonInterval calculates the Wilson score confidence interval for a
// binomial proportion. It behaves well for the small samples a young
// waitlist has, where the normal approximation does not.
func WilsonInterval(successes, trials int, confidence float64) Interval {
	if trials <= 0 {
		return Interval{}
	}

	z := ZScore(confidence)
	n := float64(trials)
	p := float64(successes) / n

	denominator := 1 + z*z/n
	center := (p + z*z/(2*n)) / denominator
	spread := (z / denominator) * math.Sqrt(p*(1-p)/n+z*z/(4*n*n))

	return Interval{
		Rate:  p,
		Lower: math.Max(0, center-spread),
		Upper: math.Min(1, center+spread),
	}
}

// CompletionInterval is the 95% interval on the share of signups that
// completed the questionnaire.
func CompletionInterval(completed, signups int) Interval {
	return WilsonInterval(completed, signups, 0.95)
}

// ZScore returns the two-sided z-score for a confidence level in (0, 1).
func ZScore(confidence float64) float64 {
	if confidence <= 0 {
		return 0
	}
	if confidence >= 1 {
		return math.Inf(1)
	}
	return math.Sqrt2 * math.Erfinv(confidence)
}
