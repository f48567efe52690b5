package turso

import (
	"database/sql"

	"github.com/emiliopalmerini/satchel/internal/ports"
)

// Repositories holds all turso repository implementations as port interfaces.
type Repositories struct {
	Quizzes  ports.QuizRepository
	Sessions ports.SessionRepository
	Profiles ports.ProfileRepository
}

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Quizzes:  NewQuizRepository(db),
		Sessions: NewSessionRepository(db),
		Profiles: NewProfileRepository(db),
	}
}
