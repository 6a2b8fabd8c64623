package quality_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insightbox-cli/internal/quality"
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

func TestScanMissing(t *testing.T) {
	as := assert.New(t)
	tbl, err := table.New(
		table.NumericColumn("age", table.Number(25), table.Missing(), table.Number(30)),
		table.NumericColumn("id", table.Number(1), table.Number(2), table.Number(3)),
		table.TextColumn("city", "NY", "", ""),
	)
	require.NoError(t, err)

	rep := quality.ScanMissing(tbl)
	as.Equal([]quality.MissingEntry{{Column: "age", Count: 1}, {Column: "city", Count: 2}}, rep.Columns)
	as.Equal(3, rep.Total)
	as.Equal(2, rep.Count("city"))
	as.Zero(rep.Count("id"))
	as.False(rep.Empty())
}

func dupTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NumericColumn("n", table.Number(1), table.Number(1), table.Number(2), table.Number(1), table.Missing(), table.Missing()),
		table.TextColumn("s", "a", "a", "b", "c", "", ""),
	)
	require.NoError(t, err)
	return tbl
}

func TestScanDuplicatesAllColumns(t *testing.T) {
	as := assert.New(t)
	rep, err := quality.ScanDuplicates(dupTable(t), selector.All())
	as.NoError(err)
	as.Equal([]int{1, 5}, rep.Rows)
	as.Equal(2, rep.Count)
	as.True(rep.All)
	as.True(rep.Set()[5])
}

func TestScanDuplicatesSubset(t *testing.T) {
	as := assert.New(t)
	rep, err := quality.ScanDuplicates(dupTable(t), selector.Columns("n"))
	as.NoError(err)
	as.Equal([]int{1, 3, 5}, rep.Rows)
	as.Equal([]string{"n"}, rep.Columns)
}

func TestScanDuplicatesNoCollisionAcrossCells(t *testing.T) {
	as := assert.New(t)
	tbl, err := table.New(
		table.TextColumn("a", "x:1", "x"),
		table.TextColumn("b", "y", "1:y"),
	)
	require.NoError(t, err)
	rep, err := quality.ScanDuplicates(tbl, selector.All())
	as.NoError(err)
	as.Zero(rep.Count)
}

func TestScanDuplicatesSignedZero(t *testing.T) {
	as := assert.New(t)
	tbl, err := table.New(table.NumericColumn("n", table.Number(0), table.Number(math.Copysign(0, -1))))
	require.NoError(t, err)
	rep, err := quality.ScanDuplicates(tbl, selector.All())
	as.NoError(err)
	as.Equal(1, rep.Count)
	as.Equal([]int{1}, rep.Rows)
}

func TestScanDuplicatesUnknownColumn(t *testing.T) {
	_, err := quality.ScanDuplicates(dupTable(t), selector.Columns("ghost"))
	assert.ErrorIs(t, err, selector.ErrEmptySelection)
}

func TestSummarize(t *testing.T) {
	as := assert.New(t)
	ov := quality.Summarize(dupTable(t))
	as.Equal(6, ov.Rows)
	as.Equal(2, ov.Cols)
	as.Equal(4, ov.MissingCells)
	as.Equal(2, ov.DuplicateRows)
	as.Equal(table.KindNumeric, ov.Columns[0].Kind)
}
