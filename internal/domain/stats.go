package domain

// PersonalityCount is the number of completed profiles for one personality type.
type PersonalityCount struct {
	PersonalityType string `json:"personality_type"`
	Count           int64  `json:"count"`
}

// PersonalityShare is a PersonalityCount with its fraction of the total.
type PersonalityShare struct {
	PersonalityCount
	Share float64 `json:"share"`
}

// ProfileStats summarizes completed profiles for a quiz (or all quizzes).
type ProfileStats struct {
	SessionCount   int64
	CompletedCount int64
	AvgJourney     float64
	Personalities  []PersonalityCount
}

// CompletionRate is completed profiles over started sessions.
// Returns 0 when no session was started.
func (s *ProfileStats) CompletionRate() float64 {
	if s.SessionCount == 0 {
		return 0
	}
	return float64(s.CompletedCount) / float64(s.SessionCount)
}

// Shares derives each personality's share of all completed profiles.
// All divisions are zero-safe.
func (s *ProfileStats) Shares() []PersonalityShare {
	var total int64
	for _, p := range s.Personalities {
		total += p.Count
	}

	shares := make([]PersonalityShare, len(s.Personalities))
	for i, p := range s.Personalities {
		shares[i] = PersonalityShare{PersonalityCount: p}
		if total > 0 {
			shares[i].Share = float64(p.Count) / float64(total)
		}
	}
	return shares
}
