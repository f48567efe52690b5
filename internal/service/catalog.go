package service

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/satchel/internal/domain"
	"github.com/emiliopalmerini/satchel/internal/ports"
	"github.com/emiliopalmerini/satchel/internal/quiz"
	"github.com/emiliopalmerini/satchel/internal/quizzes"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	slugValidate = validator.New()
)

func init() {
	err := slugValidate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register slug validation: %v", err))
	}
}

// ValidateSlug checks that slug is a lowercase, hyphenated identifier of at
// most 64 characters.
func ValidateSlug(slug string) error {
	if err := slugValidate.Var(slug, "required,max=64,slug"); err != nil {
		return fmt.Errorf("%w %q", ErrInvalidSlug, slug)
	}
	return nil
}

// Entry is one quiz available to take.
type Entry struct {
	Slug    string      `json:"slug"`
	Title   string      `json:"title"`
	Bundled bool        `json:"bundled"`
	Graph   *quiz.Graph `json:"-"`
}

// Catalog maps quiz slugs to validated graphs. Safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Add registers g under slug, replacing any previous graph.
func (c *Catalog) Add(slug string, g *quiz.Graph) {
	c.add(Entry{Slug: slug, Title: g.Title(), Graph: g})
}

func (c *Catalog) add(e Entry) {
	if e.Title == "" {
		e.Title = e.Slug
	}
	c.mu.Lock()
	c.entries[e.Slug] = e
	c.mu.Unlock()
}

// Get returns the graph registered under slug.
func (c *Catalog) Get(slug string) (*quiz.Graph, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[slug]
	return e.Graph, ok
}

// List returns all entries ordered by slug.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Slug, b.Slug) })
	return out
}

// LoadBundled registers the quizzes compiled into the binary.
func (c *Catalog) LoadBundled() error {
	files, err := quizzes.Files()
	if err != nil {
		return fmt.Errorf("reading bundled quizzes: %w", err)
	}
	for _, f := range files {
		g, err := f.Load()
		if err != nil {
			return err
		}
		c.add(Entry{Slug: f.Slug, Title: g.Title(), Bundled: true, Graph: g})
	}
	return nil
}

// LoadStored registers every quiz saved in the repository. Stored quizzes
// replace bundled ones with the same slug. A stored source that no longer
// validates is skipped with a warning.
func (c *Catalog) LoadStored(ctx context.Context, repo ports.QuizRepository, log *zap.Logger) (int, error) {
	stored, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing stored quizzes: %w", err)
	}

	loaded := 0
	for _, q := range stored {
		g, err := parseGraph(q.Source, q.Format)
		if err != nil {
			log.Warn("skipping stored quiz", zap.String("slug", q.Slug), zap.Error(err))
			continue
		}
		c.add(Entry{Slug: q.Slug, Title: q.Title, Graph: g})
		loaded++
	}
	return loaded, nil
}

// Import validates a quiz source, saves it and registers it under slug.
func (c *Catalog) Import(ctx context.Context, repo ports.QuizRepository, slug string, data []byte, format quiz.Format) (*quiz.Graph, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	g, err := parseGraph(data, string(format))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := repo.Upsert(ctx, &domain.Quiz{
		Slug:      slug,
		Title:     g.Title(),
		Format:    string(format),
		Source:    data,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, err
	}

	c.add(Entry{Slug: slug, Title: g.Title(), Graph: g})
	return g, nil
}

func parseGraph(data []byte, format string) (*quiz.Graph, error) {
	f, err := quiz.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	src, err := quiz.ParseSource(data, f)
	if err != nil {
		return nil, err
	}
	return quiz.LoadGraph(src)
}
