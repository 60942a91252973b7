package safe

import (
	"bytes"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMatRejectsInvalidDimensions(t *testing.T) {
	cases := []struct {
		name       string
		rows, cols int
	}{
		{"zero rows", 0, 10},
		{"zero cols", 10, 0},
		{"negative", -1, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewMat(tc.rows, tc.cols, gocv.MatTypeCV8UC1); err == nil {
				t.Errorf("NewMat(%d, %d) did not fail", tc.rows, tc.cols)
			}
		})
	}
}

func TestMatCloseInvalidates(t *testing.T) {
	mat, err := NewMat(4, 4, gocv.MatTypeCV8UC1)
	if err != nil {
		t.Fatalf("NewMat: %v", err)
	}

	if !mat.IsValid() {
		t.Fatal("fresh Mat is not valid")
	}

	mat.Close()

	if mat.IsValid() {
		t.Error("Mat still valid after Close")
	}
	if !mat.Empty() {
		t.Error("closed Mat reports non-empty")
	}
	if _, err := mat.GetUCharAt(0, 0); err == nil {
		t.Error("pixel access on closed Mat did not fail")
	}
}

func TestNewMatFromBytesRoundTrip(t *testing.T) {
	data := []byte{0, 50, 100, 150, 200, 255}

	mat, err := NewMatFromBytes(2, 3, data)
	if err != nil {
		t.Fatalf("NewMatFromBytes: %v", err)
	}
	defer mat.Close()

	got, err := mat.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}

	if !bytes.Equal(got, data) {
		t.Errorf("round trip = %v, want %v", got, data)
	}

	if _, err := NewMatFromBytes(2, 3, data[:4]); err == nil {
		t.Error("length mismatch did not fail")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	mat, err := NewMatFromBytes(2, 2, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("NewMatFromBytes: %v", err)
	}
	defer mat.Close()

	clone, err := mat.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	defer clone.Close()

	if err := mat.SetUCharAt(0, 0, 99); err != nil {
		t.Fatalf("SetUCharAt: %v", err)
	}

	v, err := clone.GetUCharAt(0, 0)
	if err != nil {
		t.Fatalf("GetUCharAt: %v", err)
	}
	if v != 1 {
		t.Errorf("clone pixel = %d after mutating source, want 1", v)
	}
}

func TestReleaseDropsLastReference(t *testing.T) {
	mat, err := NewMat(2, 2, gocv.MatTypeCV8UC1)
	if err != nil {
		t.Fatalf("NewMat: %v", err)
	}

	mat.AddRef()
	mat.Release()
	if !mat.IsValid() {
		t.Fatal("Mat closed while a reference remained")
	}

	mat.Release()
	if mat.IsValid() {
		t.Error("Mat still valid after last Release")
	}
}
