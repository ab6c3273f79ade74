// internal/alignapp/app_test.go
package alignapp

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"thermalign/internal/output"
)

func run(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errB bytes.Buffer
	code := Run(argv, &out, &errB)
	return code, out.String(), errB.String()
}

func TestHairpinTextGolden(t *testing.T) {
	code, out, errS := run(t,
		"--mode", "hairpin", "--seq", "CCGCCTAATGGGCGG", "--structure")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	want := "id\tkind\tTm\tdG\tdH\tdS\n" +
		"manual\thairpin\t47.87\t-1368.46\t-40400.00\t-125.8473\n" +
		"SEQ\t/////-----\\\\\\\\\\\n" +
		"STR\tCCGCCTAATGGGCGG\n"
	if out != want {
		t.Errorf("text output:\n%q\nwant:\n%q", out, want)
	}
}

func TestHeterodimerTSV(t *testing.T) {
	code, out, errS := run(t,
		"--mode", "any",
		"--seq", "CGTAATGCGGGCTAAC", "--seq2", "GTTAGCCCGCATTACG",
		"-o", "tsv", "--no-header")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if out != "manual\tany\ttrue\t46.76\t-15093.53\t-127100.00\t-361.1364\t\n" {
		t.Errorf("tsv output: %q", out)
	}
}

func TestOligoPairEnumeration(t *testing.T) {
	code, out, errS := run(t,
		"--mode", "heterodimer",
		"--oligo", "A:AAAAAAAAAA",
		"--oligo", "B:TTTTTTTTTT",
		"--oligo", "C:ACGTACGTACGT",
		"--self",
		"-o", "json")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	var rows []output.Row
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	sort.Strings(ids)
	want := []string{"A+B", "A+C", "A+self", "B+C", "B+self", "C+self"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	for _, r := range rows {
		if r.ID == "A+B" && (r.End1 != 10 || r.End2 != 10) {
			t.Errorf("A+B ends: %+v", r)
		}
	}
}

func TestConditionsPrecedence(t *testing.T) {
	cond := filepath.Join(t.TempDir(), "cond.yaml")
	if err := os.WriteFile(cond,
		[]byte("mv_mM: 100\ndv_mM: 1.5\ndntp_mM: 0.6\noligo_nM: 250\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, fromYAML, errS := run(t,
		"--mode", "any",
		"--seq", "CGTAATGCGGGCTAAC", "--seq2", "GTTAGCCCGCATTACG",
		"--conditions", cond, "--no-header")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if !strings.Contains(fromYAML, "\t56.06\t") {
		t.Errorf("yaml conditions not applied: %q", fromYAML)
	}

	code, fromFlags, errS := run(t,
		"--mode", "any",
		"--seq", "CGTAATGCGGGCTAAC", "--seq2", "GTTAGCCCGCATTACG",
		"--mv", "100mM", "--dv", "1.5mM", "--dntp", "0.6mM", "--conc", "250nM",
		"--no-header")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if fromFlags != fromYAML {
		t.Errorf("flags and equivalent yaml disagree:\n%q\n%q", fromFlags, fromYAML)
	}

	// An explicit flag wins over the file.
	code, overridden, errS := run(t,
		"--mode", "any",
		"--seq", "CGTAATGCGGGCTAAC", "--seq2", "GTTAGCCCGCATTACG",
		"--conditions", cond, "--mv", "50mM", "--no-header")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if overridden == fromYAML {
		t.Errorf("--mv should override the conditions file")
	}
}

func TestTemperatureOnly(t *testing.T) {
	code, out, errS := run(t,
		"--mode", "any",
		"--seq", "AAAAAAAAAA", "--seq2", "TTTTTTTTTT",
		"--temp-only", "--no-header")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if out != "manual\tany\t6.52\t0.00\t0.00\t0.0000\n" {
		t.Errorf("temp-only output: %q", out)
	}
}

func TestNoStructureRow(t *testing.T) {
	code, out, errS := run(t,
		"--mode", "hairpin", "--seq", "CAAAAAG", "--no-header")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if out != "manual\thairpin\tno structure\n" {
		t.Errorf("output: %q", out)
	}
}

func TestOligosTSVInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.tsv")
	data := "# id seq\nF\tCGTAATGCGGGCTAAC\nR\tGTTAGCCCGCATTACG\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errS := run(t,
		"--mode", "heterodimer", "--oligos", path, "--no-header")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if !strings.HasPrefix(out, "F+R\tany\t46.76\t") {
		t.Errorf("output: %q", out)
	}
}

func TestCurveOut(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "curves")
	code, _, errS := run(t,
		"--mode", "hairpin", "--seq", "CCGCCTAATGGGCGG",
		"--curve-out", dir)
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	st, err := os.Stat(filepath.Join(dir, "manual.png"))
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() == 0 {
		t.Errorf("empty melt-curve PNG")
	}
}

func TestUsageAndExitCodes(t *testing.T) {
	if code, out, _ := run(t, "-h"); code != 0 || !strings.Contains(out, "thermalign") {
		t.Errorf("help: exit %d out=%q", code, out)
	}
	if code, out, _ := run(t, "--version"); code != 0 || !strings.Contains(out, "thermalign version") {
		t.Errorf("version: exit %d out=%q", code, out)
	}
	if code, _, _ := run(t, "--mode", "bogus", "--seq", "ACGT"); code != 2 {
		t.Errorf("bad mode: exit %d, want 2", code)
	}
	if code, _, errS := run(t, "--mode", "hairpin", "--seq", "ACGU"); code != 2 || errS == "" {
		t.Errorf("bad sequence: exit %d err=%q", code, errS)
	}
	if code, _, _ := run(t, "--seq", "ACGT", "--conditions", "no-such.yaml"); code != 2 {
		t.Errorf("missing conditions file: exit %d, want 2", code)
	}
	if code, _, _ := run(t, "--seq", "ACGT", "--params", t.TempDir()); code != 2 {
		t.Errorf("unreadable params dir: exit %d, want 2", code)
	}
}
