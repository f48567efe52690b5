// Package quizzes ships the sample quiz graphs bundled into the binary.
package quizzes

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/emiliopalmerini/satchel/internal/quiz"
)

//go:embed data/*.yaml data/*.json
var files embed.FS

// File is one bundled quiz source.
type File struct {
	Slug   string
	Format quiz.Format
	Data   []byte
}

// Files returns every bundled quiz source, ordered by slug.
func Files() ([]File, error) {
	entries, err := fs.ReadDir(files, "data")
	if err != nil {
		return nil, err
	}

	var out []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := files.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		out = append(out, File{
			Slug:   strings.TrimSuffix(e.Name(), path.Ext(e.Name())),
			Format: quiz.DetectFormat(e.Name()),
			Data:   data,
		})
	}
	return out, nil
}

// Graph parses and validates the bundled quiz with the given slug.
func Graph(slug string) (*quiz.Graph, error) {
	all, err := Files()
	if err != nil {
		return nil, err
	}
	for _, f := range all {
		if f.Slug == slug {
			return f.Load()
		}
	}
	return nil, fmt.Errorf("no bundled quiz %q", slug)
}

// Load parses and validates the file.
func (f File) Load() (*quiz.Graph, error) {
	src, err := quiz.ParseSource(f.Data, f.Format)
	if err != nil {
		return nil, fmt.Errorf("quiz %s: %w", f.Slug, err)
	}
	g, err := quiz.LoadGraph(src)
	if err != nil {
		return nil, fmt.Errorf("quiz %s: %w", f.Slug, err)
	}
	return g, nil
}
