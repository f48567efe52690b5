package quiz

import (
	"maps"
	"math"
	"sort"
)

// Scores maps trait names to a numeric value: raw accumulated affinity or a
// normalized value in [0,1].
type Scores map[string]float64

func (s Scores) clone() Scores {
	if s == nil {
		return Scores{}
	}
	return maps.Clone(s)
}

// Merge adds every weight into raw. Absent traits start at zero. Addition is
// commutative and associative, so the result depends only on the multiset of
// weight vectors merged.
func Merge(raw Scores, weights Weights) {
	for _, w := range weights {
		raw[w.Trait] += w.Value
	}
}

// Normalize rescales raw scores by the largest absolute raw value and clamps
// the result to [0,1]. Different paths visit different questions, so no fixed
// per-trait ceiling exists; the session's own maximum is the reference. When
// every raw value is zero all normalized values are zero.
func Normalize(raw Scores) Scores {
	out := make(Scores, len(raw))
	var referenceMax float64
	for _, v := range raw {
		referenceMax = max(referenceMax, math.Abs(v))
	}
	for trait, v := range raw {
		if referenceMax == 0 {
			out[trait] = 0
			continue
		}
		out[trait] = min(max(v/referenceMax, 0), 1)
	}
	return out
}

// Level is the qualitative bucket of a normalized trait score.
type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
)

type Levels map[string]Level

const (
	LowThreshold  = 0.34
	HighThreshold = 0.67

	DefaultDominantCount = 4
)

// Thresholds are the lower bounds of the Moderate and High levels.
type Thresholds struct {
	Moderate float64
	High     float64
}

var DefaultThresholds = Thresholds{Moderate: LowThreshold, High: HighThreshold}

// Level is monotonic in v as long as Moderate <= High.
func (t Thresholds) Level(v float64) Level {
	switch {
	case v < t.Moderate:
		return LevelLow
	case v < t.High:
		return LevelModerate
	default:
		return LevelHigh
	}
}

func (t Thresholds) Classify(normalized Scores) Levels {
	levels := make(Levels, len(normalized))
	for trait, v := range normalized {
		levels[trait] = t.Level(v)
	}
	return levels
}

// Classifier turns normalized scores into levels and a dominant trait list.
type Classifier struct {
	Thresholds    Thresholds
	DominantCount int
}

var DefaultClassifier = Classifier{Thresholds: DefaultThresholds, DominantCount: DefaultDominantCount}

func (c Classifier) Classify(normalized Scores) Levels {
	return c.Thresholds.Classify(normalized)
}

// Dominant returns at most DominantCount traits, ranked as DominantTraits does.
func (c Classifier) Dominant(normalized Scores, order []string) []string {
	return DominantTraits(normalized, order, c.DominantCount)
}

// Classify buckets normalized scores with the default thresholds.
func Classify(normalized Scores) Levels {
	return DefaultClassifier.Classify(normalized)
}

// DominantTraits ranks traits by normalized value, highest first. Ties fall
// back to the position in order (first appearance in the graph), then to the
// trait name. At most k traits are returned.
func DominantTraits(normalized Scores, order []string, k int) []string {
	if k <= 0 || len(normalized) == 0 {
		return []string{}
	}

	rank := make(map[string]int, len(order))
	for i, trait := range order {
		if _, ok := rank[trait]; !ok {
			rank[trait] = i
		}
	}
	position := func(trait string) int {
		if r, ok := rank[trait]; ok {
			return r
		}
		return len(order)
	}

	traits := make([]string, 0, len(normalized))
	for trait := range normalized {
		traits = append(traits, trait)
	}
	sort.Slice(traits, func(i, j int) bool {
		a, b := traits[i], traits[j]
		if normalized[a] != normalized[b] {
			return normalized[a] > normalized[b]
		}
		if pa, pb := position(a), position(b); pa != pb {
			return pa < pb
		}
		return a < b
	})

	if len(traits) > k {
		traits = traits[:k]
	}
	return traits
}
