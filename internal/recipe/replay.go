package recipe

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/session"
)

// StepError reports which step of a recipe failed. Index is 1-based.
type StepError struct {
	Index  int
	Action clean.Action
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Action, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Replay applies each step to the session in order and stops at the first
// failure. Steps applied before the failure stay in the session's history.
func (r *Recipe) Replay(s *session.Session) ([]clean.Effect, error) {
	effects := make([]clean.Effect, 0, len(r.Steps))
	for i, a := range r.Steps {
		eff, err := s.Apply(a)
		if err != nil {
			return effects, &StepError{Index: i + 1, Action: a, Err: err}
		}
		effects = append(effects, eff)
	}
	return effects, nil
}

// Markdown renders the recipe as a numbered step list.
func (r *Recipe) Markdown() string {
	var sb strings.Builder
	sb.WriteString("[RECIPE]\n")
	fmt.Fprintf(&sb, "Name: %s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", r.Description)
	}
	if r.Source != "" {
		fmt.Fprintf(&sb, "Recorded on: %s\n", r.Source)
	}
	fmt.Fprintf(&sb, "Updated: %s\n\n", r.UpdatedAt.Format("2006-01-02 15:04"))
	sb.WriteString("[STEPS]\n")
	if len(r.Steps) == 0 {
		sb.WriteString("(none)\n")
	}
	for i, a := range r.Steps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, a)
	}
	return sb.String()
}
