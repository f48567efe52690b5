package domain

import (
	"time"

	"github.com/emiliopalmerini/satchel/internal/quiz"
)

// ProfileRecord is a completed personality profile tied to the session and
// quiz that produced it.
type ProfileRecord struct {
	SessionID string
	QuizSlug  string
	Profile   quiz.Profile
	CreatedAt time.Time
}
