package domain

import "time"

// StoredSession is the persisted state of an in-progress or completed quiz
// session. State is the blob produced by quiz.Serialize.
type StoredSession struct {
	ID          string
	QuizSlug    string
	State       []byte
	AnswerCount int64
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
