package tips

import (
	"math"
	"math/rand"
)

// scoreConfidence maps a response and a random roll in [0,1) onto the
// displayed 60..95 confidence band. Longer answers score higher; the
// number is a presentation heuristic, not a calibrated probability.
func scoreConfidence(response string, roll float64) int {
	score := float64(len(response))/10 + roll*20
	return int(math.Round(math.Min(95, math.Max(60, score))))
}

// ConfidenceFor returns the confidence score shown alongside a tip.
func ConfidenceFor(response string) int {
	return scoreConfidence(response, rand.Float64())
}
