package turso_test

import (
	"context"
	"testing"

	"github.com/emiliopalmerini/satchel/internal/adapters/turso"
	"github.com/emiliopalmerini/satchel/internal/domain"
)

func TestQuizRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewQuizRepository(db)

	got, err := repo.GetBySlug(ctx, "handbags")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing quiz, got %+v", got)
	}

	q := &domain.Quiz{
		Slug:      "handbags",
		Title:     "Which bag are you?",
		Format:    "yaml",
		Source:    []byte("root: Q1\n"),
		CreatedAt: at(0),
		UpdatedAt: at(0),
	}
	if err := repo.Upsert(ctx, q); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := repo.Upsert(ctx, &domain.Quiz{Slug: "aaa", Format: "json", Source: []byte("{}"), CreatedAt: at(1), UpdatedAt: at(1)}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err = repo.GetBySlug(ctx, "handbags")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.Title != q.Title || string(got.Source) != string(q.Source) || !got.CreatedAt.Equal(q.CreatedAt) {
		t.Errorf("GetBySlug returned %+v", got)
	}

	// Upsert keeps created_at and replaces the rest
	q.Title = "Renamed"
	q.CreatedAt = at(30)
	q.UpdatedAt = at(30)
	if err := repo.Upsert(ctx, q); err != nil {
		t.Fatalf("Upsert (update) failed: %v", err)
	}
	got, _ = repo.GetBySlug(ctx, "handbags")
	if got.Title != "Renamed" {
		t.Errorf("expected title Renamed, got %s", got.Title)
	}
	if !got.CreatedAt.Equal(at(0)) || !got.UpdatedAt.Equal(at(30)) {
		t.Errorf("unexpected timestamps created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Slug != "aaa" || list[1].Slug != "handbags" {
		t.Fatalf("expected [aaa handbags], got %d quizzes", len(list))
	}

	if err := repo.Delete(ctx, "aaa"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	list, _ = repo.List(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 quiz after delete, got %d", len(list))
	}
}
