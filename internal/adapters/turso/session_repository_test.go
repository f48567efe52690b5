package turso_test

import (
	"context"
	"testing"

	"github.com/emiliopalmerini/satchel/internal/adapters/turso"
	"github.com/emiliopalmerini/satchel/internal/domain"
)

func TestSessionRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewSessionRepository(db)

	s := &domain.StoredSession{
		ID:        "s-1",
		QuizSlug:  "handbags",
		State:     []byte(`{"version":1}`),
		CreatedAt: at(0),
		UpdatedAt: at(0),
	}
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s.State = []byte(`{"version":1,"path":[]}`)
	s.AnswerCount = 3
	s.Completed = true
	s.UpdatedAt = at(5)
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save (update) failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if string(got.State) != `{"version":1,"path":[]}` || got.AnswerCount != 3 || !got.Completed {
		t.Errorf("GetByID returned %+v", got)
	}
	if !got.CreatedAt.Equal(at(0)) || !got.UpdatedAt.Equal(at(5)) {
		t.Errorf("unexpected timestamps created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	missing, err := repo.GetByID(ctx, "nope")
	if err != nil {
		t.Fatalf("GetByID (missing) failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing session, got %+v", missing)
	}

	if err := repo.Delete(ctx, "s-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := repo.GetByID(ctx, "s-1"); got != nil {
		t.Error("session still present after Delete")
	}
}

func TestSessionRepository_DeleteStaleBefore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewSessionRepository(db)

	seed := []domain.StoredSession{
		{ID: "old-open", QuizSlug: "a", UpdatedAt: at(0)},
		{ID: "old-done", QuizSlug: "a", UpdatedAt: at(0), Completed: true},
		{ID: "new-open", QuizSlug: "b", UpdatedAt: at(120)},
	}
	for i := range seed {
		seed[i].State = []byte("{}")
		seed[i].CreatedAt = seed[i].UpdatedAt
		if err := repo.Save(ctx, &seed[i]); err != nil {
			t.Fatalf("Save %s failed: %v", seed[i].ID, err)
		}
	}

	n, err := repo.DeleteStaleBefore(ctx, at(60))
	if err != nil {
		t.Fatalf("DeleteStaleBefore failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 stale session deleted, got %d", n)
	}

	total, err := repo.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 sessions left, got %d", total)
	}

	slug := "a"
	perQuiz, err := repo.Count(ctx, &slug)
	if err != nil {
		t.Fatalf("Count (quiz) failed: %v", err)
	}
	if perQuiz != 1 {
		t.Errorf("expected 1 session for quiz a, got %d", perQuiz)
	}
}
