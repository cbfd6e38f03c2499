package analysis

import (
	"hash/fnv"
	"math/rand"
)

// StateVotes is one state's synthetic vote tally.
type StateVotes struct {
	YesVotes          int     `json:"yes_votes"`
	NoVotes           int     `json:"no_votes"`
	Abstain           int     `json:"abstain"`
	SupportPercentage float64 `json:"support_percentage"`
}

var stateCodes = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// VotingHeatmap generates a synthetic per-state vote distribution for a bill.
// The data is a placeholder, not a real feed: it is seeded by the bill number
// so repeated requests for the same bill return the same map.
func VotingHeatmap(billNumber string) map[string]StateVotes {
	h := fnv.New64a()
	_, _ = h.Write([]byte(billNumber))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	out := make(map[string]StateVotes, len(stateCodes))
	for _, state := range stateCodes {
		yes := rng.Intn(50) + 1
		no := rng.Intn(50) + 1
		abstain := rng.Intn(10)
		support := float64(yes) / float64(yes+no) * 100
		out[state] = StateVotes{
			YesVotes:          yes,
			NoVotes:           no,
			Abstain:           abstain,
			SupportPercentage: support,
		}
	}
	return out
}
