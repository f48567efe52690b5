package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/util"
)

type QuizRepository struct {
	db *sql.DB
}

func NewQuizRepository(db *sql.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Upsert(ctx context.Context, quiz *domain.Quiz) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quizzes (slug, title, format, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			format = excluded.format,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, quiz.Slug, quiz.Title, quiz.Format, string(quiz.Source),
		util.FormatTime(quiz.CreatedAt), util.FormatTime(quiz.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert quiz: %w", err)
	}
	return nil
}

func (r *QuizRepository) GetBySlug(ctx context.Context, slug string) (*domain.Quiz, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT slug, title, format, source, created_at, updated_at
		FROM quizzes WHERE slug = ?
	`, slug)

	quiz, err := scanQuiz(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (r *QuizRepository) List(ctx context.Context) ([]*domain.Quiz, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT slug, title, format, source, created_at, updated_at
		FROM quizzes ORDER BY slug
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var quizzes []*domain.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (r *QuizRepository) Delete(ctx context.Context, slug string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quizzes WHERE slug = ?`, slug)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (*domain.Quiz, error) {
	var (
		quiz                 domain.Quiz
		source               string
		createdAt, updatedAt string
	)
	if err := row.Scan(&quiz.Slug, &quiz.Title, &quiz.Format, &source, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	quiz.Source = []byte(source)
	quiz.CreatedAt = util.ParseTime(createdAt)
	quiz.UpdatedAt = util.ParseTime(updatedAt)
	return &quiz, nil
}
