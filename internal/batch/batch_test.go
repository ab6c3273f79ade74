// internal/batch/batch_test.go
package batch

import (
	"context"
	"errors"
	"math"
	"testing"

	"thermalign-core/params"
	"thermalign-core/thal"
)

func testTables(t *testing.T) *params.Tables {
	t.Helper()
	tbl, err := params.Defaults()
	if err != nil {
		t.Fatalf("default tables: %v", err)
	}
	return tbl
}

func TestRunOrderAndValues(t *testing.T) {
	tbl := testTables(t)
	jobs := []Job{
		{ID: "h", Kind: thal.Hairpin, Seq1: "CCGCCTAATGGGCGG"},
		{ID: "d", Kind: thal.Any, Seq1: "CGTAATGCGGGCTAAC", Seq2: "GTTAGCCCGCATTACG"},
		{ID: "none", Kind: thal.Hairpin, Seq1: "CAAAAAG"},
	}
	res, err := Run(context.Background(), jobs, tbl, thal.DefaultConfig(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 3 {
		t.Fatalf("want 3 results, got %d", len(res))
	}
	for i, r := range res {
		if r.Job.ID != jobs[i].ID {
			t.Fatalf("result %d out of order: %s", i, r.Job.ID)
		}
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Job.ID, r.Err)
		}
	}
	if math.Abs(res[0].Res.Tm-47.874001) > 1e-4 {
		t.Errorf("hairpin Tm = %v", res[0].Res.Tm)
	}
	if math.Abs(res[1].Res.Tm-46.760525) > 1e-4 {
		t.Errorf("dimer Tm = %v", res[1].Res.Tm)
	}
	if res[2].Res.StructureFound {
		t.Errorf("CAAAAAG should fold to nothing")
	}
}

func TestRunPerJobErrors(t *testing.T) {
	tbl := testTables(t)
	jobs := []Job{
		{ID: "bad", Kind: thal.Any, Seq1: "", Seq2: "ACGT"},
		{ID: "ok", Kind: thal.Hairpin, Seq1: "GGGCGAAAGCCC"},
	}
	res, err := Run(context.Background(), jobs, tbl, thal.DefaultConfig(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(res[0].Err, thal.ErrEmptySequence) {
		t.Errorf("bad job: %v", res[0].Err)
	}
	if res[1].Err != nil || !res[1].Res.StructureFound {
		t.Errorf("ok job: %+v", res[1])
	}
}

func TestRunCancelled(t *testing.T) {
	tbl := testTables(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	jobs := make([]Job, 64)
	for i := range jobs {
		jobs[i] = Job{ID: "j", Kind: thal.Hairpin, Seq1: "CCGCCTAATGGGCGG"}
	}
	if _, err := Run(ctx, jobs, tbl, thal.DefaultConfig(), 1); err == nil {
		t.Fatalf("cancelled context should abort the batch")
	}
}
