package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/ports"
	"github.com/emiliopalmerini/satchel/internal/quiz"
	"github.com/emiliopalmerini/satchel/internal/util"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, record *domain.ProfileRecord) error {
	traits, err := json.Marshal(record.Profile.DominantTraits)
	if err != nil {
		return fmt.Errorf("failed to encode dominant traits: %w", err)
	}
	scores, err := json.Marshal(record.Profile.Scores)
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}
	journey, err := json.Marshal(record.Profile.QuizJourney)
	if err != nil {
		return fmt.Errorf("failed to encode journey: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (session_id, quiz_slug, personality_type, dominant_traits, scores, journey, journey_length, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING
	`, record.SessionID, record.QuizSlug, record.Profile.PersonalityType,
		string(traits), string(scores), string(journey), len(record.Profile.QuizJourney),
		util.FormatTime(record.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

const profileColumns = `session_id, quiz_slug, personality_type, dominant_traits, scores, journey, created_at`

func (r *ProfileRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.ProfileRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE session_id = ?`, sessionID)

	record, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return record, nil
}

func (r *ProfileRepository) List(ctx context.Context, opts ports.ListProfilesOptions) ([]*domain.ProfileRecord, error) {
	limit := int64(opts.Limit)
	if limit == 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error
	if opts.QuizSlug != nil {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+profileColumns+` FROM profiles
			WHERE quiz_slug = ?
			ORDER BY created_at DESC, session_id
			LIMIT ?
		`, *opts.QuizSlug, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+profileColumns+` FROM profiles
			ORDER BY created_at DESC, session_id
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.ProfileRecord
	for rows.Next() {
		record, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *ProfileRepository) Stats(ctx context.Context, quizSlug *string) (*domain.ProfileStats, error) {
	where, args := "", []any{}
	if quizSlug != nil {
		where, args = " WHERE quiz_slug = ?", []any{*quizSlug}
	}

	stats := &domain.ProfileStats{}
	var avgJourney sql.NullFloat64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(journey_length) FROM profiles`+where, args...,
	).Scan(&stats.CompletedCount, &avgJourney); err != nil {
		return nil, fmt.Errorf("failed to get profile stats: %w", err)
	}
	stats.AvgJourney = avgJourney.Float64

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_sessions`+where, args...,
	).Scan(&stats.SessionCount); err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT personality_type, COUNT(*) AS n FROM profiles`+where+`
		GROUP BY personality_type
		ORDER BY n DESC, personality_type
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count personalities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var pc domain.PersonalityCount
		if err := rows.Scan(&pc.PersonalityType, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan personality count: %w", err)
		}
		stats.Personalities = append(stats.Personalities, pc)
	}
	return stats, rows.Err()
}

func scanProfile(row rowScanner) (*domain.ProfileRecord, error) {
	var (
		record                  domain.ProfileRecord
		traits, scores, journey string
		createdAt               string
	)
	if err := row.Scan(&record.SessionID, &record.QuizSlug, &record.Profile.PersonalityType,
		&traits, &scores, &journey, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(traits), &record.Profile.DominantTraits); err != nil {
		return nil, fmt.Errorf("decode dominant traits: %w", err)
	}
	if err := json.Unmarshal([]byte(scores), &record.Profile.Scores); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	if err := json.Unmarshal([]byte(journey), &record.Profile.QuizJourney); err != nil {
		return nil, fmt.Errorf("decode journey: %w", err)
	}
	if record.Profile.QuizJourney == nil {
		record.Profile.QuizJourney = []quiz.Step{}
	}
	record.CreatedAt = util.ParseTime(createdAt)
	return &record, nil
}
