package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  Scores
		want Scores
	}{
		{
			name: "empty",
			raw:  Scores{},
			want: Scores{},
		},
		{
			name: "all zero",
			raw:  Scores{"Bold": 0, "Calm": 0},
			want: Scores{"Bold": 0, "Calm": 0},
		},
		{
			name: "relative to max",
			raw:  Scores{"Bold": 4, "Calm": 2, "Chic": 1},
			want: Scores{"Bold": 1, "Calm": 0.5, "Chic": 0.25},
		},
		{
			name: "negative clamps to zero",
			raw:  Scores{"Bold": 4, "Calm": -2},
			want: Scores{"Bold": 1, "Calm": 0},
		},
		{
			name: "negative magnitude sets the reference",
			raw:  Scores{"Bold": 2, "Calm": -8},
			want: Scores{"Bold": 0.25, "Calm": 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_Range(t *testing.T) {
	inputs := []Scores{
		{"a": 1},
		{"a": 3, "b": 7, "c": 0.5},
		{"a": 1e-9, "b": 2e-9},
		{"a": 1e12, "b": 3, "c": 0},
		{"a": 0.1, "b": 0.2, "c": 0.30000000000000004},
	}
	for _, raw := range inputs {
		got := Normalize(raw)
		require.Len(t, got, len(raw))

		ones := 0
		for trait, v := range got {
			assert.GreaterOrEqual(t, v, 0.0, trait)
			assert.LessOrEqual(t, v, 1.0, trait)
			if v == 1 {
				ones++
			}
		}
		assert.GreaterOrEqual(t, ones, 1, "no trait normalized to exactly 1 for %v", raw)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := Scores{"Bold": 4}
	_ = Normalize(raw)
	assert.Equal(t, Scores{"Bold": 4}, raw)
}

func TestThresholds_Level(t *testing.T) {
	tests := []struct {
		v    float64
		want Level
	}{
		{0, LevelLow},
		{0.33, LevelLow},
		{0.339999, LevelLow},
		{0.34, LevelModerate},
		{0.5, LevelModerate},
		{0.669999, LevelModerate},
		{0.67, LevelHigh},
		{1, LevelHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultThresholds.Level(tt.v), "v=%v", tt.v)
	}
}

func TestClassify_Monotonic(t *testing.T) {
	rank := map[Level]int{LevelLow: 0, LevelModerate: 1, LevelHigh: 2}

	prev := LevelLow
	for i := 0; i <= 1000; i++ {
		v := float64(i) / 1000
		got := Classify(Scores{"Bold": v, "Calm": 0.5})["Bold"]
		assert.GreaterOrEqual(t, rank[got], rank[prev], "level dropped at %v", v)
		prev = got
	}
	assert.Equal(t, LevelHigh, prev)
}

func TestThresholds_Custom(t *testing.T) {
	th := Thresholds{Moderate: 0.2, High: 0.9}
	assert.Equal(t, Levels{"a": LevelModerate, "b": LevelLow, "c": LevelHigh},
		th.Classify(Scores{"a": 0.5, "b": 0.1, "c": 0.95}))
}

func TestClassifier(t *testing.T) {
	c := Classifier{Thresholds: Thresholds{Moderate: 0.2, High: 0.9}, DominantCount: 2}
	normalized := Scores{"a": 0.5, "b": 0.1, "c": 0.95}

	assert.Equal(t, Levels{"a": LevelModerate, "b": LevelLow, "c": LevelHigh}, c.Classify(normalized))
	assert.Equal(t, []string{"c", "a"}, c.Dominant(normalized, nil))

	assert.Equal(t, Classify(normalized), DefaultClassifier.Classify(normalized))
	assert.Equal(t, DefaultDominantCount, DefaultClassifier.DominantCount)
}

func TestDominantTraits(t *testing.T) {
	normalized := Scores{"Bold": 0.5, "Calm": 1, "Chic": 0.5, "Art": 0.5, "Zest": 0.25, "Edge": 0.5}
	order := []string{"Chic", "Calm", "Bold"}

	t.Run("ties by declaration order then name", func(t *testing.T) {
		got := DominantTraits(normalized, order, 5)
		assert.Equal(t, []string{"Calm", "Chic", "Bold", "Art", "Edge"}, got)
	})

	t.Run("bounded by k", func(t *testing.T) {
		for k := 0; k <= 8; k++ {
			got := DominantTraits(normalized, order, k)
			assert.LessOrEqual(t, len(got), k)
			assert.Len(t, got, min(k, len(normalized)))
			for i := 1; i < len(got); i++ {
				assert.GreaterOrEqual(t, normalized[got[i-1]], normalized[got[i]])
			}
		}
	})

	t.Run("stable across runs", func(t *testing.T) {
		first := DominantTraits(normalized, order, DefaultDominantCount)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, DominantTraits(normalized, order, DefaultDominantCount))
		}
	})

	t.Run("fewer traits than k", func(t *testing.T) {
		assert.Equal(t, []string{"Bold"}, DominantTraits(Scores{"Bold": 1}, nil, 4))
		assert.Empty(t, DominantTraits(Scores{}, nil, 4))
	})
}
