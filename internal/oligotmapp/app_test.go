// internal/oligotmapp/app_test.go
package oligotmapp

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
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

func TestDefaultTm(t *testing.T) {
	code, out, errS := run(t, "--no-header", "GTAAAACGACGGCCAGT")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if out != "O1\ttm\t49.17\n" {
		t.Errorf("output: %q", out)
	}
}

func TestMethodsChangeTm(t *testing.T) {
	_, sl, _ := run(t, "--no-header", "GTAAAACGACGGCCAGT")
	code, br, errS := run(t, "--no-header",
		"--tm-method", "breslauer", "--salt-method", "schildkraut",
		"GTAAAACGACGGCCAGT")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if br != "O1\ttm\t54.44\n" {
		t.Errorf("breslauer/schildkraut output: %q", br)
	}
	if br == sl {
		t.Errorf("methods should disagree: %q", br)
	}
}

func TestNamedOligosJSON(t *testing.T) {
	code, out, errS := run(t, "-o", "json",
		"--oligo", "M13F:GTAAAACGACGGCCAGT",
		"--oligo", "CGCGCG")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	var rows []output.Row
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rows) != 2 || rows[0].ID != "M13F" || rows[1].ID != "O2" {
		t.Errorf("rows: %+v", rows)
	}
	if rows[0].Kind != "tm" || rows[0].Tm < 49 || rows[0].Tm > 50 {
		t.Errorf("M13F: %+v", rows[0])
	}
}

func TestOligosTSVAndConditions(t *testing.T) {
	dir := t.TempDir()
	panel := filepath.Join(dir, "panel.tsv")
	if err := os.WriteFile(panel, []byte("M13F\tGTAAAACGACGGCCAGT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cond := filepath.Join(dir, "cond.yaml")
	if err := os.WriteFile(cond, []byte("mv_mM: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, base, _ := run(t, "--no-header", "--oligos", panel)
	code, salted, errS := run(t, "--no-header", "--oligos", panel, "--conditions", cond)
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if salted == base {
		t.Errorf("higher salt must raise Tm: %q vs %q", salted, base)
	}

	// Explicit flag wins over the file.
	_, overridden, _ := run(t, "--no-header", "--oligos", panel,
		"--conditions", cond, "--mv", "50mM")
	if overridden != base {
		t.Errorf("--mv should override the conditions file: %q vs %q", overridden, base)
	}
}

func TestInvalidSequenceWarnsAndSkips(t *testing.T) {
	code, out, errS := run(t, "--no-header", "ACGN", "CGCGCG")
	if code != 0 {
		t.Fatalf("exit %d err=%s", code, errS)
	}
	if !strings.Contains(errS, "WARN") || !strings.Contains(errS, "O1") {
		t.Errorf("expected warning for O1: %q", errS)
	}
	if out != "O2\ttm\t17.24\n" {
		t.Errorf("output: %q", out)
	}
}

func TestAllInvalidExit2(t *testing.T) {
	if code, _, _ := run(t, "ACGN"); code != 2 {
		t.Errorf("exit %d, want 2", code)
	}
}

func TestUsageAndVersion(t *testing.T) {
	if code, out, _ := run(t, "-h"); code != 0 || !strings.Contains(out, "oligotm") {
		t.Errorf("help: exit %d out=%q", code, out)
	}
	if code, out, _ := run(t, "--version"); code != 0 || !strings.Contains(out, "oligotm version") {
		t.Errorf("version: exit %d out=%q", code, out)
	}
	if code, _, _ := run(t, "--tm-method", "wallace", "ACGT"); code != 2 {
		t.Errorf("bad method: exit %d, want 2", code)
	}
}
