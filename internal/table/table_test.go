package table_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

func sample(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NumericColumn("age", table.Number(25), table.Missing(), table.Number(30)),
		table.TextColumn("city", "NY", "LA", ""),
	)
	require.NoError(t, err)
	return tbl
}

func TestNewValidates(t *testing.T) {
	as := assert.New(t)

	_, err := table.New(
		table.TextColumn("a", "x"),
		table.TextColumn("a", "y"),
	)
	as.ErrorIs(err, table.ErrDuplicateColumn)

	_, err = table.New(
		table.TextColumn("a", "x", "y"),
		table.TextColumn("b", "y"),
	)
	as.ErrorIs(err, table.ErrRowMismatch)
}

func TestShapeAndAccess(t *testing.T) {
	as := assert.New(t)
	tbl := sample(t)

	as.Equal(3, tbl.NumRows())
	as.Equal(2, tbl.NumCols())
	as.Equal([]string{"age", "city"}, tbl.Names())
	as.Equal(2, tbl.MissingCount())

	age, ok := tbl.Column("age")
	as.True(ok)
	as.Equal(table.KindNumeric, age.Kind())
	as.Equal([]float64{25, 30}, age.Floats())
	as.Equal(1, age.MissingCount())

	_, ok = tbl.Column("nope")
	as.False(ok)

	row := tbl.Row(0)
	as.Equal("25", row[0].String())
	as.Equal("NY", row[1].String())
}

func TestFilterDoesNotTouchSource(t *testing.T) {
	as := assert.New(t)
	tbl := sample(t)
	before := tbl.Row(1)

	next, removed := tbl.Filter(func(row int) bool { return row != 1 })
	as.Equal(1, removed)
	as.Equal(2, next.NumRows())
	as.Equal(3, tbl.NumRows())
	as.Equal(before, tbl.Row(1))

	same, removed := tbl.Filter(func(int) bool { return true })
	as.Zero(removed)
	as.Same(tbl, same)
}

func TestReplaceSharesOtherColumns(t *testing.T) {
	as := assert.New(t)
	tbl := sample(t)
	age, _ := tbl.Column("age")
	city, _ := tbl.Column("city")

	filled := age.Map(func(_ int, v table.Cell) table.Cell {
		if v.IsMissing() {
			return table.Number(0)
		}
		return v
	})
	next, err := tbl.Replace(filled)
	as.NoError(err)

	nextCity, _ := next.Column("city")
	as.Same(city, nextCity)
	as.Equal(1, age.MissingCount())
	as.False(tbl.Equal(next))

	_, err = tbl.Replace(table.TextColumn("ghost", "a", "b", "c"))
	as.ErrorIs(err, table.ErrColumnNotFound)
}

func TestCellSemantics(t *testing.T) {
	as := assert.New(t)

	as.True(table.Missing().IsMissing())
	as.True(table.Number(nan()).IsMissing())
	as.Equal("27.5", table.Number(27.5).String())
	as.NotEqual(table.Number(1).Key(), table.Text("1").Key())
	as.Equal(table.Text("a"), table.Text("a"))
	as.Nil(table.Missing().Interface())
}

func TestNegativeZeroIsZero(t *testing.T) {
	as := assert.New(t)
	neg := table.Number(math.Copysign(0, -1))
	as.Equal(table.Number(0), neg)
	as.Equal(table.Number(0).Key(), neg.Key())
	as.Equal("0", neg.String())
	f, _ := neg.Float()
	as.False(math.Signbit(f))
}

func TestInferKind(t *testing.T) {
	as := assert.New(t)

	as.Equal(table.KindNumeric, table.InferKind([]table.Cell{table.Number(1), table.Missing()}, table.KindText))
	as.Equal(table.KindText, table.InferKind([]table.Cell{table.Text("x")}, table.KindNumeric))
	as.Equal(table.KindOther, table.InferKind([]table.Cell{table.Text("x"), table.Number(2)}, table.KindNumeric))
	as.Equal(table.KindText, table.InferKind([]table.Cell{table.Missing()}, table.KindText))

	k, err := table.ParseKind("categorical")
	as.NoError(err)
	as.Equal(table.KindText, k)
	_, err = table.ParseKind("blob")
	as.Error(err)
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}
