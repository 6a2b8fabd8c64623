package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

func workbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet("Plots"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	rows := [][]any{
		{"plot", "yield", ""},
		{"A1", 12.5, "x"},
		{"B3", nil, nil},
		{"C2", 9, "y"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Plots", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SetCellValue("Sheet1", "A1", "other"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestLoadXLSXBySheetName(t *testing.T) {
	opt := DefaultOptions()
	opt.SheetName = "plots"
	tbl, err := Load("harvest.xlsx", workbook(t), opt)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := strings.Join(tbl.Names(), "|"); got != "plot|yield|Unnamed: 2" {
		t.Fatalf("unexpected names %q", got)
	}
	y, _ := tbl.Column("yield")
	if y.Kind() != table.KindNumeric || y.MissingCount() != 1 {
		t.Fatalf("yield: kind %s missing %d", y.Kind(), y.MissingCount())
	}
}

func TestLoadXLSXByIndex(t *testing.T) {
	tbl, err := Load("harvest.xlsx", workbook(t), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.NumRows() != 0 || tbl.Names()[0] != "other" {
		t.Fatalf("expected header-only first sheet, got %v rows=%d", tbl.Names(), tbl.NumRows())
	}
}

func TestLoadXLSXUnknownSheet(t *testing.T) {
	opt := DefaultOptions()
	opt.SheetName = "Nope"
	_, err := Load("harvest.xlsx", workbook(t), opt)
	if !errors.Is(err, ErrLoadFailed) || !strings.Contains(err.Error(), "Available sheets: Sheet1, Plots") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestExportFileXLSX(t *testing.T) {
	src, err := table.New(
		table.TextColumn("name", "ann", "", "cid"),
		table.NumericColumn("score", table.Number(1.5), table.Missing(), table.Number(3)),
	)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	p := filepath.Join(t.TempDir(), "out.xlsx")
	if err := ExportFile(p, src); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	back, err := Load(p, data, DefaultOptions())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !back.Equal(src) {
		t.Fatalf("xlsx round trip differs: %v", back.Names())
	}
}
