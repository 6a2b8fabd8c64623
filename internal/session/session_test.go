package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/quality"
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/session"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

func people(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NumericColumn("age", table.Number(25), table.Missing(), table.Number(30), table.Number(25)),
		table.TextColumn("city", "NY", "LA", "", "NY"),
	)
	require.NoError(t, err)
	return tbl
}

func TestApplyBeforeLoad(t *testing.T) {
	s := session.New()
	_, err := s.Apply(clean.DropRows(selector.All()))
	assert.ErrorIs(t, err, session.ErrNotLoaded)
	assert.Nil(t, s.Current())
	assert.False(t, s.Loaded())
}

func TestApplySequenceAndHistory(t *testing.T) {
	as := assert.New(t)
	s := session.New()
	raw := people(t)
	require.NoError(t, s.Load(raw, "people.csv"))

	steps := []clean.Action{
		clean.FillNumeric(selector.All(), clean.StrategyMedian),
		clean.FillCategorical(selector.All()),
		clean.DropDuplicates(selector.All()),
	}
	for _, a := range steps {
		_, err := s.Apply(a)
		require.NoError(t, err)
	}

	as.Equal(steps, s.History())
	as.True(quality.ScanMissing(s.Current()).Empty())
	as.Equal(3, s.Current().NumRows())
	as.Equal(4, raw.NumRows())
	as.Len(s.Steps(), 3)
	as.Equal(1, s.Steps()[2].Effect.RowsRemoved)
}

func TestFailedApplyLeavesStateUntouched(t *testing.T) {
	as := assert.New(t)
	s := session.New()
	require.NoError(t, s.Load(people(t), "people.csv"))
	before := s.Current()

	_, err := s.Apply(clean.FillManual(selector.All(), ""))
	as.ErrorIs(err, clean.ErrEmptyValue)
	_, err = s.Apply(clean.DropRows(selector.Columns("nonexistent_col")))
	as.ErrorIs(err, selector.ErrEmptySelection)

	as.Same(before, s.Current())
	as.Empty(s.History())
}

func TestLoadResetsHistory(t *testing.T) {
	as := assert.New(t)
	s := session.New(session.WithID("fixed"))
	require.NoError(t, s.Load(people(t), "a.csv"))
	_, err := s.Apply(clean.DropRows(selector.All()))
	require.NoError(t, err)

	require.NoError(t, s.Load(people(t), "b.csv"))
	as.Empty(s.History())
	as.Equal("b.csv", s.Source())
	as.Equal("fixed", s.ID())
	as.Error(s.Load(nil, "c.csv"))
}

func TestHistoryIsACopy(t *testing.T) {
	s := session.New()
	require.NoError(t, s.Load(people(t), "a.csv"))
	_, err := s.Apply(clean.DropRows(selector.All()))
	require.NoError(t, err)

	h := s.History()
	h[0].Kind = clean.KindToText
	assert.Equal(t, clean.KindDropRows, s.History()[0].Kind)
}

func TestApplyIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := session.New(session.WithLogger(zap.New(core)))
	require.NoError(t, s.Load(people(t), "a.csv"))
	_, _ = s.Apply(clean.DropRows(selector.All()))
	_, _ = s.Apply(clean.FillManual(selector.All(), ""))

	assert.Equal(t, 1, logs.FilterMessage("action applied").Len())
	assert.Equal(t, 1, logs.FilterMessage("action rejected").Len())
}
