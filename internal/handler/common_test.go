package handler

import "testing"

func TestIndexToRowLabel_SingleLetters(t *testing.T) {
	cases := map[int]string{
		0:  "A",
		1:  "B",
		25: "Z",
	}
	for idx, want := range cases {
		if got := indexToRowLabel(idx); got != want {
			t.Fatalf("indexToRowLabel(%d) = %q, want %q", idx, got, want)
		}
	}
}

func TestIndexToRowLabel_DoubleLetters(t *testing.T) {
	cases := map[int]string{
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
		701: "ZZ",
		702: "AAA",
	}
	for idx, want := range cases {
		if got := indexToRowLabel(idx); got != want {
			t.Fatalf("indexToRowLabel(%d) = %q, want %q", idx, got, want)
		}
	}
}

func TestIndexToRowLabel_Negative(t *testing.T) {
	if got := indexToRowLabel(-1); got != "" {
		t.Fatalf("indexToRowLabel(-1) = %q, want empty", got)
	}
}

func TestRowLabelToIndex_RoundTrip(t *testing.T) {
	for i := 0; i < 800; i++ {
		label := indexToRowLabel(i)
		back, ok := rowLabelToIndex(label)
		if !ok {
			t.Fatalf("rowLabelToIndex(%q) rejected a generated label", label)
		}
		if back != i {
			t.Fatalf("round trip failed for %d: label %q mapped back to %d", i, label, back)
		}
	}
}

func TestRowLabelToIndex_Invalid(t *testing.T) {
	for _, label := range []string{"", "  ", "A1", "1", "-"} {
		if _, ok := rowLabelToIndex(label); ok {
			t.Fatalf("rowLabelToIndex(%q) should be rejected", label)
		}
	}
}

func TestRowLabelToIndex_CaseAndSpace(t *testing.T) {
	idx, ok := rowLabelToIndex(" aa ")
	if !ok || idx != 26 {
		t.Fatalf("rowLabelToIndex(\" aa \") = %d, %v; want 26, true", idx, ok)
	}
}

func TestDedupeIDs(t *testing.T) {
	got := dedupeIDs([]uint64{3, 0, 1, 3, 1, 2})
	want := []uint64{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("dedupeIDs returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dedupeIDs returned %v, want %v", got, want)
		}
	}
}
