package clean_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/quality"
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

func people(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NumericColumn("age", table.Number(25), table.Missing(), table.Number(30)),
		table.TextColumn("city", "NY", "LA", ""),
	)
	require.NoError(t, err)
	return tbl
}

func cells(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	c, ok := tbl.Column(name)
	require.True(t, ok, "column %s", name)
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.Cell(i).String()
	}
	return out
}

func TestFillNumericMean(t *testing.T) {
	as := assert.New(t)
	tbl := people(t)

	next, eff, err := clean.Apply(tbl, clean.FillNumeric(selector.Columns("age"), clean.StrategyMean))
	require.NoError(t, err)

	as.Equal([]string{"25", "27.5", "30"}, cells(t, next, "age"))
	as.Equal([]string{"NY", "LA", ""}, cells(t, next, "city"))
	as.Equal([]string{"age"}, eff.Columns)
	as.Equal(clean.StrategyMean, eff.Strategy)
	as.Equal(1, eff.CellsFilled)
	as.Equal([]clean.ColumnFill{{Column: "age", Value: "27.5", Cells: 1}}, eff.Fills)
}

func TestFillNumericMedianAndZero(t *testing.T) {
	as := assert.New(t)
	tbl, err := table.New(
		table.NumericColumn("a", table.Number(1), table.Missing(), table.Number(2), table.Number(10)),
		table.NumericColumn("b", table.Missing(), table.Number(4), table.Number(4), table.Number(4)),
	)
	require.NoError(t, err)

	med, _, err := clean.Apply(tbl, clean.FillNumeric(selector.All(), clean.StrategyMedian))
	require.NoError(t, err)
	as.Equal([]string{"1", "2", "2", "10"}, cells(t, med, "a"))
	as.Equal([]string{"4", "4", "4", "4"}, cells(t, med, "b"))

	zero, _, err := clean.Apply(tbl, clean.FillNumeric(selector.All(), clean.StrategyZero))
	require.NoError(t, err)
	as.Equal([]string{"1", "0", "2", "10"}, cells(t, zero, "a"))
}

func TestFillNumericSkipsAllMissingColumn(t *testing.T) {
	as := assert.New(t)
	tbl, err := table.New(
		table.NumericColumn("empty", table.Missing(), table.Missing()),
		table.NumericColumn("x", table.Number(3), table.Missing()),
	)
	require.NoError(t, err)

	next, eff, err := clean.Apply(tbl, clean.FillNumeric(selector.All(), clean.StrategyMean))
	require.NoError(t, err)
	as.Equal([]clean.Skipped{{Column: "empty", Reason: clean.ReasonNoValues}}, eff.Skipped)
	as.Equal([]string{"x"}, eff.Columns)
	as.Equal([]string{"", ""}, cells(t, next, "empty"))
	as.Equal([]string{"3", "3"}, cells(t, next, "x"))

	// Zero needs no statistic, so even an empty column is filled.
	next, eff, err = clean.Apply(tbl, clean.FillNumeric(selector.Columns("empty"), clean.StrategyZero))
	require.NoError(t, err)
	as.Empty(eff.Skipped)
	as.Equal([]string{"0", "0"}, cells(t, next, "empty"))
}

func TestFillNumericWrongKindIsNoTarget(t *testing.T) {
	as := assert.New(t)
	_, _, err := clean.Apply(people(t), clean.FillNumeric(selector.Columns("city"), clean.StrategyMean))
	as.ErrorIs(err, clean.ErrNoTarget)
	as.ErrorIs(err, selector.ErrEmptySelection)
}

func TestFillCategoricalTieGoesToFirst(t *testing.T) {
	as := assert.New(t)
	next, eff, err := clean.Apply(people(t), clean.FillCategorical(selector.Columns("city")))
	require.NoError(t, err)
	as.Equal([]string{"NY", "LA", "NY"}, cells(t, next, "city"))
	as.Equal([]string{"city"}, eff.Columns)

	// age is numeric, so "all columns" only targets city.
	next, eff, err = clean.Apply(people(t), clean.FillCategorical(selector.All()))
	require.NoError(t, err)
	as.Equal([]string{"city"}, eff.Columns)
	as.Equal([]string{"25", "", "30"}, cells(t, next, "age"))
}

func TestFillCategoricalAllMissingIsWarning(t *testing.T) {
	as := assert.New(t)
	tbl, err := table.New(table.TextColumn("s", "", ""))
	require.NoError(t, err)
	next, eff, err := clean.Apply(tbl, clean.FillCategorical(selector.All()))
	require.NoError(t, err)
	as.Equal([]clean.Skipped{{Column: "s", Reason: clean.ReasonNoValues}}, eff.Skipped)
	as.True(tbl.Equal(next))
	as.False(eff.Changed())
}

func TestFillManual(t *testing.T) {
	as := assert.New(t)
	tbl := people(t)

	next, eff, err := clean.Apply(tbl, clean.FillManual(selector.All(), "unknown"))
	require.NoError(t, err)
	as.Equal([]string{"25", "unknown", "30"}, cells(t, next, "age"))
	as.Equal([]string{"NY", "LA", "unknown"}, cells(t, next, "city"))
	as.Equal(2, eff.CellsFilled)

	age, _ := next.Column("age")
	as.Equal(table.KindOther, age.Kind())
	city, _ := next.Column("city")
	as.Equal(table.KindText, city.Kind())
	as.Zero(quality.ScanMissing(next).Total)
}

func TestFillManualRejectsEmptyValue(t *testing.T) {
	as := assert.New(t)
	tbl := people(t)
	next, _, err := clean.Apply(tbl, clean.FillManual(selector.All(), ""))
	as.ErrorIs(err, clean.ErrEmptyValue)
	as.Nil(next)
	as.Equal(1, quality.ScanMissing(tbl).Count("age"))

	// The value is checked before the selection.
	_, _, err = clean.Apply(tbl, clean.FillManual(selector.Selection{}, ""))
	as.ErrorIs(err, clean.ErrEmptyValue)
}

func TestDropRows(t *testing.T) {
	as := assert.New(t)
	tbl := people(t)

	next, eff, err := clean.Apply(tbl, clean.DropRows(selector.All()))
	require.NoError(t, err)
	as.Equal(1, next.NumRows())
	as.Equal(2, eff.RowsRemoved)

	next, eff, err = clean.Apply(tbl, clean.DropRows(selector.Columns("city")))
	require.NoError(t, err)
	as.Equal([]string{"25", ""}, cells(t, next, "age"))
	as.Equal(1, eff.RowsRemoved)
	as.Equal([]string{"city"}, eff.Columns)
}

func TestDropRowsUnknownColumn(t *testing.T) {
	as := assert.New(t)
	tbl := people(t)
	_, _, err := clean.Apply(tbl, clean.DropRows(selector.Columns("nonexistent_col")))
	as.ErrorIs(err, clean.ErrNoTarget)

	var selErr *selector.SelectionError
	as.True(errors.As(err, &selErr))
	as.Equal([]string{"nonexistent_col"}, selErr.Unknown)
	as.Equal(3, tbl.NumRows())
}

func TestActionWithMisspelledColumnIsRejected(t *testing.T) {
	as := assert.New(t)
	tbl := people(t)
	before := cells(t, tbl, "age")

	next, eff, err := clean.Apply(tbl, clean.DropRows(selector.Columns("age", "ctiy")))
	as.Nil(next)
	as.Empty(eff.Columns)
	as.ErrorIs(err, clean.ErrNoTarget)
	as.ErrorIs(err, selector.ErrEmptySelection)

	var selErr *selector.SelectionError
	require.True(t, errors.As(err, &selErr))
	as.Equal([]string{"ctiy"}, selErr.Unknown)
	as.Equal(3, tbl.NumRows())
	as.Equal(before, cells(t, tbl, "age"))

	_, _, err = clean.Apply(tbl, clean.FillManual(selector.Columns("city", "ctiy"), "n/a"))
	as.ErrorIs(err, clean.ErrNoTarget)
}

func TestDropDuplicates(t *testing.T) {
	as := assert.New(t)
	tbl, err := table.New(
		table.NumericColumn("n", table.Number(1), table.Number(1), table.Number(2)),
		table.TextColumn("s", "a", "a", "b"),
	)
	require.NoError(t, err)

	once, eff, err := clean.Apply(tbl, clean.DropDuplicates(selector.All()))
	require.NoError(t, err)
	as.Equal(1, eff.RowsRemoved)
	as.Equal([]string{"1", "2"}, cells(t, once, "n"))
	as.Equal([]string{"a", "b"}, cells(t, once, "s"))

	twice, eff, err := clean.Apply(once, clean.DropDuplicates(selector.All()))
	require.NoError(t, err)
	as.Zero(eff.RowsRemoved)
	as.True(once.Equal(twice))
	as.Equal(3, tbl.NumRows())
}

func TestEncodeLabels(t *testing.T) {
	as := assert.New(t)
	tbl, err := table.New(table.TextColumn("size", "m", "s", "", "l", "m"))
	require.NoError(t, err)

	next, eff, err := clean.Apply(tbl, clean.EncodeLabels(selector.All()))
	require.NoError(t, err)
	as.Equal([]string{"1", "2", "", "0", "1"}, cells(t, next, "size"))
	as.Equal(map[string][]string{"size": {"l", "m", "s"}}, eff.Categories)
	c, _ := next.Column("size")
	as.Equal(table.KindNumeric, c.Kind())
	as.True(eff.Changed())

	_, _, err = clean.Apply(next, clean.EncodeLabels(selector.All()))
	as.ErrorIs(err, clean.ErrNoTarget)
}

func TestToText(t *testing.T) {
	as := assert.New(t)
	next, eff, err := clean.Apply(people(t), clean.ToText(selector.Columns("age", "city")))
	require.NoError(t, err)
	as.Equal([]string{"age"}, eff.Columns)
	c, _ := next.Column("age")
	as.Equal(table.KindText, c.Kind())
	as.True(c.Cell(0).IsText())
	as.True(c.Cell(1).IsMissing())
	as.Equal("25", c.Cell(0).String())
}

func TestInvalidActions(t *testing.T) {
	as := assert.New(t)
	tbl := people(t)

	_, _, err := clean.Apply(tbl, clean.FillNumeric(selector.All(), "mode"))
	as.ErrorIs(err, clean.ErrInvalidAction)

	_, _, err = clean.Apply(tbl, clean.Action{Kind: "shuffle", Selection: selector.All()})
	as.ErrorIs(err, clean.ErrInvalidAction)

	_, _, err = clean.Apply(tbl, clean.Action{})
	as.ErrorIs(err, clean.ErrInvalidAction)

	st, err := clean.ParseStrategy(" Median ")
	as.NoError(err)
	as.Equal(clean.StrategyMedian, st)
	_, err = clean.ParseStrategy("avg")
	as.ErrorIs(err, clean.ErrInvalidAction)
}

func TestActionsNeverMutateInput(t *testing.T) {
	actions := []clean.Action{
		clean.DropRows(selector.All()),
		clean.FillNumeric(selector.All(), clean.StrategyMean),
		clean.FillCategorical(selector.All()),
		clean.FillManual(selector.All(), "x"),
		clean.DropDuplicates(selector.All()),
		clean.EncodeLabels(selector.All()),
		clean.ToText(selector.All()),
	}
	for _, a := range actions {
		t.Run(string(a.Kind), func(t *testing.T) {
			as := assert.New(t)
			tbl := people(t)
			snapshot := people(t)

			next, eff, err := clean.Apply(tbl, a)
			require.NoError(t, err)
			as.True(tbl.Equal(snapshot), "input changed by %s", a)

			switch a.Kind {
			case clean.KindDropRows, clean.KindDropDuplicates:
				as.LessOrEqual(next.NumRows(), tbl.NumRows())
			default:
				as.Equal(tbl.NumRows(), next.NumRows())
			}
			as.Equal(eff.RowsBefore-eff.RowsAfter, eff.RowsRemoved)
			as.Equal(tbl.Names(), next.Names())
		})
	}
}

func TestFillCompleteness(t *testing.T) {
	as := assert.New(t)
	tbl := people(t)

	num, _, err := clean.Apply(tbl, clean.FillNumeric(selector.All(), clean.StrategyMedian))
	require.NoError(t, err)
	as.Zero(quality.ScanMissing(num).Count("age"))

	cat, _, err := clean.Apply(num, clean.FillCategorical(selector.All()))
	require.NoError(t, err)
	as.True(quality.ScanMissing(cat).Empty())
}
