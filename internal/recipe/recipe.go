package recipe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/session"
	"github.com/KaramelBytes/insightbox-cli/internal/utils"
)

const fileExt = ".yaml"

// Recipe is a named, replayable list of cleaning actions persisted as YAML.
type Recipe struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Source      string         `yaml:"source,omitempty"`
	Steps       []clean.Action `yaml:"steps"`
	CreatedAt   time.Time      `yaml:"created_at"`
	UpdatedAt   time.Time      `yaml:"updated_at"`
}

// New constructs an in-memory recipe. Call Save to persist.
func New(name, description string, steps []clean.Action) *Recipe {
	now := time.Now()
	return &Recipe{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Steps:       append([]clean.Action(nil), steps...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// FromSession captures the session's history in application order.
func FromSession(name, description string, s *session.Session) *Recipe {
	r := New(name, description, s.History())
	r.Source = filepath.Base(s.Source())
	return r
}

// Validate checks every step, reporting the first bad one by position.
func (r *Recipe) Validate() error {
	if r == nil {
		return errors.New("recipe is nil")
	}
	for i, a := range r.Steps {
		if err := a.Validate(); err != nil {
			return &StepError{Index: i + 1, Action: a, Err: err}
		}
	}
	return nil
}

// Load reads and validates a recipe file.
func Load(path string) (*Recipe, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("recipe not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	var r Recipe
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe %s: %w", filepath.Base(path), err)
	}
	return &r, nil
}

// Save writes the recipe to path using an atomic write.
func (r *Recipe) Save(path string) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.UpdatedAt = time.Now()
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}
	return utils.SafeWriteFile(path, data)
}

// Path returns the file a recipe named name lives at inside dir.
func Path(dir, name string) string {
	if strings.HasSuffix(name, fileExt) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(dir, slug(name)+fileExt)
}

// List loads every recipe in dir sorted by name. Unreadable files are skipped.
func List(dir string) ([]*Recipe, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read recipes dir: %w", err)
	}
	var out []*Recipe
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		r, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "recipe"
	}
	return b.String()
}
