package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

func TestReadDelimitedNATokensAndHeaders(t *testing.T) {
	content := "id,,id,score\n" +
		"1,x,NA,3.5\n" +
		"2,,N/A,null\n" +
		"3,z,<NA>\n"
	tbl, err := Load("data.csv", []byte(content), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"id", "Unnamed: 1", "id.1", "score"}
	if got := tbl.Names(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("names %v, want %v", got, want)
	}
	dup, _ := tbl.Column("id.1")
	if dup.MissingCount() != 3 || dup.Kind() != table.KindNumeric {
		t.Fatalf("all-missing column should be numeric with 3 missing, got %s/%d", dup.Kind(), dup.MissingCount())
	}
	score, _ := tbl.Column("score")
	if score.MissingCount() != 2 {
		t.Fatalf("short row and null token should be missing, got %d", score.MissingCount())
	}
	blank, _ := tbl.Column("Unnamed: 1")
	if blank.Kind() != table.KindText || blank.MissingCount() != 1 {
		t.Fatalf("unexpected blank-header column %s/%d", blank.Kind(), blank.MissingCount())
	}
}

func TestReadDelimitedCustomNAValues(t *testing.T) {
	opt := DefaultOptions()
	opt.NAValues = []string{"-"}
	tbl, err := Load("d.csv", []byte("a,b\n-,NA\n1,x\n"), opt)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	a, _ := tbl.Column("a")
	b, _ := tbl.Column("b")
	if a.MissingCount() != 1 || b.MissingCount() != 0 {
		t.Fatalf("custom NA tokens not honoured: a=%d b=%d", a.MissingCount(), b.MissingCount())
	}
}

func TestReadDelimitedTooManyFields(t *testing.T) {
	_, err := Load("d.csv", []byte("a,b\n1,2,3\n"), DefaultOptions())
	if !errors.Is(err, ErrLoadFailed) || !strings.Contains(err.Error(), "expected 2 fields, saw 3") {
		t.Fatalf("expected field count failure, got %v", err)
	}
}

func TestSniffDelimiter(t *testing.T) {
	cases := map[string]rune{
		"a\tb\tc\n1\t2\t3": '\t',
		"a;b;c\n":          ';',
		"a,b\n":            ',',
		"single\n":         ',',
	}
	for in, want := range cases {
		if got := sniffDelimiter([]byte(in)); got != want {
			t.Fatalf("sniff %q: got %q want %q", in, got, want)
		}
	}
}

func TestParseNumericLocales(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"12%", 12, true},
		{"1e3", 1000, true},
		{"-0.5", -0.5, true},
		{"inf", 0, false},
		{"abc", 0, false},
		{"%", 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumeric(c.in, Options{})
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("parseNumeric(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	src := "name,score,note\nann,1.5,\nbob,,\"a, b\"\n"
	tbl, err := Load("d.csv", []byte(src), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl, ','); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != src {
		t.Fatalf("round trip mismatch:\n%s\nwant:\n%s", buf.String(), src)
	}
	back, err := Load("d.csv", buf.Bytes(), DefaultOptions())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !back.Equal(tbl) {
		t.Fatalf("reloaded table differs")
	}
}
