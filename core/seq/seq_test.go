// core/seq/seq_test.go
package seq

import "testing"

func TestCode(t *testing.T) {
	cases := []struct {
		in   byte
		want byte
	}{
		{'A', A}, {'a', A}, {'C', C}, {'G', G}, {'T', T}, {'t', T},
		{'N', N}, {'X', N}, {'-', N},
	}
	for _, c := range cases {
		if got := Code(c.in); got != c.want {
			t.Errorf("Code(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEncodePadding(t *testing.T) {
	enc := Encode("ACGT")
	if len(enc) != 6 {
		t.Fatalf("len = %d, want 6", len(enc))
	}
	if enc[0] != N || enc[5] != N {
		t.Errorf("sentinels = %d,%d, want 4,4", enc[0], enc[5])
	}
	for i, want := range []byte{A, C, G, T} {
		if enc[i+1] != want {
			t.Errorf("enc[%d] = %d, want %d", i+1, enc[i+1], want)
		}
	}
}

func TestValidate(t *testing.T) {
	if _, err := Validate("acgtn"); err != nil {
		t.Errorf("Validate(acgtn) err = %v", err)
	}
	if _, err := Validate("ACGU"); err == nil {
		t.Error("Validate(ACGU) expected error")
	}
	s, err := Validate(" acGT\n")
	if err != nil || s != "ACGT" {
		t.Errorf("Validate whitespace = %q, %v", s, err)
	}
}

func TestSymmetric(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"GAATTC", true},  // EcoRI site, self-complementary
		{"ACGT", true},
		{"AATT", true},
		{"AAA", false},    // odd length
		{"GAATTG", false},
		{"", true},
	}
	for _, c := range cases {
		if got := Symmetric(c.in); got != c.want {
			t.Errorf("Symmetric(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestReversed(t *testing.T) {
	if got := Reversed("ACGGT"); got != "TGGCA" {
		t.Errorf("Reversed = %q", got)
	}
}

func TestPair(t *testing.T) {
	if !Pair(A, T) || !Pair(G, C) || Pair(A, C) || Pair(N, N) || Pair(A, N) {
		t.Error("Pair table wrong")
	}
}
