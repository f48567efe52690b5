package quiz

import (
	"maps"
	"slices"
)

// Profile is the immutable result of a completed session.
type Profile struct {
	PersonalityType string        `json:"personality_type"`
	DominantTraits  []string      `json:"dominant_traits"`
	Scores          ProfileScores `json:"scores"`
	QuizJourney     []Step        `json:"quiz_journey"`
}

type ProfileScores struct {
	Raw        Scores `json:"raw"`
	Normalized Scores `json:"normalized"`
	Levels     Levels `json:"levels"`
}

// Clone returns a deep copy; nil stays nil.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		PersonalityType: p.PersonalityType,
		DominantTraits:  slices.Clone(p.DominantTraits),
		Scores: ProfileScores{
			Raw:        p.Scores.Raw.clone(),
			Normalized: p.Scores.Normalized.clone(),
			Levels:     maps.Clone(p.Scores.Levels),
		},
		QuizJourney: slices.Clone(p.QuizJourney),
	}
}

// Resolve builds the final profile. Trait tags declared on the terminal option
// take precedence over the computed ranking (capped at DefaultDominantCount);
// the ranking is used when the terminal declares none. The result shares no
// state with the session.
func Resolve(s *Session, terminal *TerminalResult, normalized Scores, levels Levels) *Profile {
	p := &Profile{
		Scores: ProfileScores{
			Raw:        s.raw.clone(),
			Normalized: normalized.clone(),
			Levels:     maps.Clone(levels),
		},
		QuizJourney: slices.Clone(s.path),
	}
	if p.Scores.Levels == nil {
		p.Scores.Levels = Levels{}
	}
	if p.QuizJourney == nil {
		p.QuizJourney = []Step{}
	}

	if terminal != nil {
		p.PersonalityType = terminal.PersonalityName
		if n := min(len(terminal.TraitTags), DefaultClassifier.DominantCount); n > 0 {
			p.DominantTraits = slices.Clone(terminal.TraitTags[:n])
		}
	}
	if p.DominantTraits == nil {
		p.DominantTraits = DefaultClassifier.Dominant(normalized, s.graph.traitOrder)
	}
	return p
}
