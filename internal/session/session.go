// Package session holds the current table of one user and the ordered
// history of actions applied to it.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// ErrNotLoaded is returned by Apply before any table was loaded.
var ErrNotLoaded = errors.New("no table loaded")

// Step is one applied action with its effect.
type Step struct {
	Action    clean.Action `json:"action"`
	Effect    clean.Effect `json:"effect"`
	AppliedAt time.Time    `json:"applied_at"`
}

// Session is a single-writer pipeline. It is not safe for concurrent use;
// callers that share one across goroutines must serialize access (Store
// does this per tenant).
type Session struct {
	id       string
	source   string
	current  *table.Table
	steps    []Step
	loadedAt time.Time
	logger   *zap.Logger
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

func New(opts ...Option) *Session {
	s := &Session{id: uuid.NewString(), logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With(zap.String("session", s.id))
	return s
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Source() string      { return s.source }
func (s *Session) Loaded() bool        { return s.current != nil }
func (s *Session) LoadedAt() time.Time { return s.loadedAt }

// Load replaces the current table and clears the history.
func (s *Session) Load(t *table.Table, source string) error {
	if t == nil {
		return errors.New("load: table is nil")
	}
	s.current = t
	s.source = source
	s.steps = nil
	s.loadedAt = time.Now()
	s.logger.Info("table loaded",
		zap.String("source", source),
		zap.Int("rows", t.NumRows()),
		zap.Int("cols", t.NumCols()))
	return nil
}

// Apply runs a against the current table. On success the result becomes
// the current table and the action is appended to the history; on error
// nothing changes.
func (s *Session) Apply(a clean.Action) (clean.Effect, error) {
	if s.current == nil {
		return clean.Effect{}, ErrNotLoaded
	}
	next, eff, err := clean.Apply(s.current, a)
	if err != nil {
		s.logger.Warn("action rejected", zap.Stringer("action", a), zap.Error(err))
		return clean.Effect{}, err
	}
	s.current = next
	s.steps = append(s.steps, Step{Action: a, Effect: eff, AppliedAt: time.Now()})
	s.logger.Info("action applied",
		zap.Stringer("action", a),
		zap.Strings("columns", eff.Columns),
		zap.Int("rows_before", eff.RowsBefore),
		zap.Int("rows_after", eff.RowsAfter),
		zap.Int("cells_filled", eff.CellsFilled))
	return eff, nil
}

// Current returns the latest table, nil before Load. Tables are immutable,
// so callers cannot alter session state through the returned value.
func (s *Session) Current() *table.Table { return s.current }

// History returns the applied actions in order.
func (s *Session) History() []clean.Action {
	out := make([]clean.Action, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.Action
	}
	return out
}

// Steps returns the applied actions with their effects.
func (s *Session) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}
