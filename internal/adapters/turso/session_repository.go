package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/util"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.StoredSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quiz_sessions (id, quiz_slug, state, answer_count, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			answer_count = excluded.answer_count,
			completed = excluded.completed,
			updated_at = excluded.updated_at
	`, session.ID, session.QuizSlug, string(session.State), session.AnswerCount,
		util.BoolToInt64(session.Completed),
		util.FormatTime(session.CreatedAt), util.FormatTime(session.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.StoredSession, error) {
	var (
		session              domain.StoredSession
		state                string
		completed            int64
		createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, quiz_slug, state, answer_count, completed, created_at, updated_at
		FROM quiz_sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.QuizSlug, &state, &session.AnswerCount, &completed, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.State = []byte(state)
	session.Completed = completed == 1
	session.CreatedAt = util.ParseTime(createdAt)
	session.UpdatedAt = util.ParseTime(updatedAt)
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quiz_sessions WHERE id = ?`, id)
	return err
}

func (r *SessionRepository) DeleteStaleBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM quiz_sessions WHERE completed = 0 AND updated_at < ?
	`, util.FormatTime(before))
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale sessions: %w", err)
	}
	return res.RowsAffected()
}

func (r *SessionRepository) Count(ctx context.Context, quizSlug *string) (int64, error) {
	var count int64
	var err error
	if quizSlug != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_sessions WHERE quiz_slug = ?`, *quizSlug).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_sessions`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
