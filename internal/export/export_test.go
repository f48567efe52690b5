package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/quiz"
)

func records() []*domain.ProfileRecord {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*domain.ProfileRecord{
		{
			SessionID: "s-1",
			QuizSlug:  "weekend",
			Profile: quiz.Profile{
				PersonalityType: "Voyager",
				DominantTraits:  []string{"Bold", "Art"},
				Scores: quiz.ProfileScores{
					Raw:        quiz.Scores{"Bold": 2, "Art": 0.5},
					Normalized: quiz.Scores{"Bold": 1, "Art": 0.25},
					Levels:     quiz.Levels{"Bold": quiz.LevelHigh, "Art": quiz.LevelLow},
				},
				QuizJourney: []quiz.Step{{NodeID: "Q1"}, {NodeID: "Q2", OptionIndex: 1}},
			},
			CreatedAt: created,
		},
		{
			SessionID: "s-2",
			QuizSlug:  "weekend",
			Profile: quiz.Profile{
				PersonalityType: "Harbor",
				DominantTraits:  []string{"Calm"},
				Scores: quiz.ProfileScores{
					Raw:        quiz.Scores{"Calm": 2},
					Normalized: quiz.Scores{"Calm": 1},
					Levels:     quiz.Levels{"Calm": quiz.LevelHigh},
				},
				QuizJourney: []quiz.Step{{NodeID: "Q1", OptionIndex: 1}},
			},
			CreatedAt: created.Add(time.Minute),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, records()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := strings.Join([]string{
		"session_id,quiz,personality_type,dominant_traits,journey_length,created_at,score_Art,score_Bold,score_Calm",
		"s-1,weekend,Voyager,Bold;Art,2,2025-03-01T12:00:00Z,0.2500,1.0000,",
		"s-2,weekend,Harbor,Calm,1,2025-03-01T12:01:00Z,,,1.0000",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("CSV mismatch:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, records()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d profiles, want 2", len(got))
	}
	if got[0]["personality_type"] != "Voyager" || got[0]["journey_length"] != float64(2) {
		t.Errorf("first profile = %v", got[0])
	}
	scores := got[1]["scores"].(map[string]any)
	if scores["levels"].(map[string]any)["Calm"] != "High" {
		t.Errorf("levels not exported: %v", scores)
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}
