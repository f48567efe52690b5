// Package export writes stored profiles as JSON or CSV for external analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/quiz"
	"github.com/emiliopalmerini/satchel/internal/util"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use json or csv)", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Profile is the export shape of one completed session.
type Profile struct {
	SessionID       string             `json:"session_id"`
	QuizSlug        string             `json:"quiz"`
	PersonalityType string             `json:"personality_type"`
	DominantTraits  []string           `json:"dominant_traits"`
	Scores          quiz.ProfileScores `json:"scores"`
	JourneyLength   int                `json:"journey_length"`
	Journey         []quiz.Step        `json:"quiz_journey"`
	CreatedAt       string             `json:"created_at"`
}

func fromRecord(r *domain.ProfileRecord) Profile {
	return Profile{
		SessionID:       r.SessionID,
		QuizSlug:        r.QuizSlug,
		PersonalityType: r.Profile.PersonalityType,
		DominantTraits:  r.Profile.DominantTraits,
		Scores:          r.Profile.Scores,
		JourneyLength:   len(r.Profile.QuizJourney),
		Journey:         r.Profile.QuizJourney,
		CreatedAt:       util.FormatTime(r.CreatedAt),
	}
}

// Write encodes records in the given format.
func Write(w io.Writer, format Format, records []*domain.ProfileRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	default:
		return fmt.Errorf("unsupported format: %s (use json or csv)", format)
	}
}

func WriteJSON(w io.Writer, records []*domain.ProfileRecord) error {
	out := make([]Profile, 0, len(records))
	for _, r := range records {
		out = append(out, fromRecord(r))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteCSV writes one row per profile. Each trait seen in any record gets a
// normalized score column, sorted by name.
func WriteCSV(w io.Writer, records []*domain.ProfileRecord) error {
	var traits []string
	for _, r := range records {
		for t := range r.Profile.Scores.Normalized {
			if !slices.Contains(traits, t) {
				traits = append(traits, t)
			}
		}
	}
	slices.Sort(traits)

	writer := csv.NewWriter(w)

	header := []string{"session_id", "quiz", "personality_type", "dominant_traits", "journey_length", "created_at"}
	for _, t := range traits {
		header = append(header, "score_"+t)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		p := fromRecord(r)
		row := []string{
			p.SessionID, p.QuizSlug, p.PersonalityType,
			strings.Join(p.DominantTraits, ";"),
			strconv.Itoa(p.JourneyLength), p.CreatedAt,
		}
		for _, t := range traits {
			v, ok := p.Scores.Normalized[t]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'f', 4, 64))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
