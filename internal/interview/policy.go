package interview

import "strings"

// DefaultThreshold is the minimum average overall impression (0-10) required
// to proceed beyond a round when no other policy is configured.
const DefaultThreshold = 6.0

// PassPolicy returns the pass threshold for a round. It is injected into the
// session so deployments can vary it without touching the state machine.
type PassPolicy func(r Round) float64

// FixedThreshold returns a policy applying the same threshold to every round.
func FixedThreshold(threshold float64) PassPolicy {
	return func(Round) float64 { return threshold }
}

// ByExperience derives the threshold from the candidate's declared experience
// level. Unknown levels fall back to the default.
func ByExperience(level string) PassPolicy {
	threshold := DefaultThreshold

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "intern", "fresher":
		threshold = 5.0
	case "junior":
		threshold = 6.0
	case "mid":
		threshold = 7.0
	case "senior":
		threshold = 8.0
	}

	return FixedThreshold(threshold)
}
