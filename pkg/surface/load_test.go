package surface

import (
	"math"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	in := "1, 2, 3\n4,5,6\n"
	g, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", g.Rows(), g.Cols())
	}
	if g.Value(0, 1) != 2 || g.Value(1, 0) != 4 {
		t.Errorf("unexpected values: %v %v", g.Value(0, 1), g.Value(1, 0))
	}
}

func TestReadCSVMissingCells(t *testing.T) {
	in := "1,,3\nnan,NaN,6\n"
	g, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	for _, rc := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
		if !math.IsNaN(g.Value(rc[0], rc[1])) {
			t.Errorf("Value(%d,%d) = %v, want NaN", rc[0], rc[1], g.Value(rc[0], rc[1]))
		}
	}
	if g.Value(1, 2) != 6 {
		t.Errorf("Value(1,2) = %v, want 6", g.Value(1, 2))
	}
}

func TestReadCSVBadNumber(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("1,two\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestReadCSVRagged(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("1,2\n3\n")); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestReadCSVEmpty(t *testing.T) {
	g, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if g.Rows() != 0 {
		t.Errorf("rows = %d, want 0", g.Rows())
	}
}
