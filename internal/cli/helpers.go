package cli

import (
	"fmt"
	"os"

	"github.com/emiliopalmerini/satchel/internal/quiz"
)

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// readQuizFile reads a quiz source, taking the format from the extension
// unless one is given.
func readQuizFile(path, format string) ([]byte, quiz.Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read quiz file: %w", err)
	}
	if format == "" {
		return data, quiz.DetectFormat(path), nil
	}
	f, err := quiz.ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	return data, f, nil
}

// loadQuizFile parses and validates a quiz source file.
func loadQuizFile(path, format string) (*quiz.Graph, quiz.Format, []byte, error) {
	data, f, err := readQuizFile(path, format)
	if err != nil {
		return nil, "", nil, err
	}
	src, err := quiz.ParseSource(data, f)
	if err != nil {
		return nil, "", nil, err
	}
	g, err := quiz.LoadGraph(src)
	if err != nil {
		return nil, "", nil, err
	}
	return g, f, data, nil
}
