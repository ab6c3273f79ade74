// core/params/params.go
// Loading of nearest-neighbor thermodynamic parameter tables from the
// text format used throughout: one value per line ("inf" allowed) for
// the quad tables, four columns for the loop table, and "SEQ value"
// rows for the tri/tetraloop bonus tables.
//
// Units everywhere: enthalpy in cal/mol, entropy in cal/(K·mol).
package params

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"thermalign-core/seq"
)

// Sentinel values stored for table entries that must never contribute
// to a structure: an unreachable entry carries H=+Inf, S=-1.
var inf = math.Inf(1)

// TinyEntropy marks entries that exist but carry no measurable
// entropy, e.g. terminal stacks against a strand end.
const TinyEntropy = 0.00000000001

// LoopEntry is one tri- or tetraloop bonus row. Seq holds the coded
// closing pair plus loop bases (5 or 6 of the 6 bytes used).
type LoopEntry struct {
	Seq   [6]byte
	Value float64
}

// Tables holds every parameter table needed for alignment, indexed by
// coded bases (seq.A..seq.N). Quad tables read as
// [top5'][top3'][bottom3'][bottom5'].
type Tables struct {
	StackS, StackH     [5][5][5][5]float64 // Watson-Crick stacks
	StackMMS, StackMMH [5][5][5][5]float64 // stacks with one internal mismatch

	TstackS, TstackH   [5][5][5][5]float64 // terminal stacks (interior loop closing)
	Tstack2S, Tstack2H [5][5][5][5]float64 // terminal stacks (duplex/hairpin ends)

	Dangle3S, Dangle3H [5][5][5]float64 // [pair top][dangle][pair bottom]
	Dangle5S, Dangle5H [5][5][5]float64 // [pair top][pair bottom][dangle]

	InteriorS, InteriorH [30]float64 // by loop size 1..30 at index size-1
	BulgeS, BulgeH       [30]float64
	HairpinS, HairpinH   [30]float64

	TriloopS, TriloopH     []LoopEntry // sorted by coded sequence
	TetraloopS, TetraloopH []LoopEntry
}

// Set carries the raw contents of the sixteen parameter files.
type Set struct {
	StackDH, StackDS         []byte
	StackMMDH, StackMMDS     []byte
	DangleDH, DangleDS       []byte
	LoopsDH, LoopsDS         []byte
	TstackDH, TstackTmInfDS  []byte
	Tstack2DH, Tstack2DS     []byte
	TriloopDH, TriloopDS     []byte
	TetraloopDH, TetraloopDS []byte
}

// FromFS reads the sixteen conventionally named parameter files from
// the root of fsys and parses them.
func FromFS(fsys fs.FS) (*Tables, error) {
	var s Set
	var err error
	read := func(dst *[]byte, name string) {
		if err != nil {
			return
		}
		var b []byte
		if b, err = fs.ReadFile(fsys, name); err != nil {
			err = fmt.Errorf("params: %w", err)
			return
		}
		*dst = b
	}
	read(&s.StackDH, "stack.dh")
	read(&s.StackDS, "stack.ds")
	read(&s.StackMMDH, "stackmm.dh")
	read(&s.StackMMDS, "stackmm.ds")
	read(&s.DangleDH, "dangle.dh")
	read(&s.DangleDS, "dangle.ds")
	read(&s.LoopsDH, "loops.dh")
	read(&s.LoopsDS, "loops.ds")
	read(&s.TstackDH, "tstack.dh")
	read(&s.TstackTmInfDS, "tstack_tm_inf.ds")
	read(&s.Tstack2DH, "tstack2.dh")
	read(&s.Tstack2DS, "tstack2.ds")
	read(&s.TriloopDH, "triloop.dh")
	read(&s.TriloopDS, "triloop.ds")
	read(&s.TetraloopDH, "tetraloop.dh")
	read(&s.TetraloopDS, "tetraloop.ds")
	if err != nil {
		return nil, err
	}
	return Parse(&s)
}

// Load reads the parameter files from a directory on disk, for labs
// that carry their own calibration instead of the embedded defaults.
func Load(dir string) (*Tables, error) {
	return FromFS(os.DirFS(dir))
}

// Parse builds the in-memory tables from raw file contents.
func Parse(s *Set) (*Tables, error) {
	t := &Tables{}
	var err error
	app := func(f func() error) {
		if err == nil {
			err = f()
		}
	}
	app(func() error { return parseQuad(s.StackDS, s.StackDH, &t.StackS, &t.StackH, false, "stack") })
	app(func() error { return parseQuad(s.StackMMDS, s.StackMMDH, &t.StackMMS, &t.StackMMH, false, "stackmm") })
	app(func() error { return parseDangle(s.DangleDS, s.DangleDH, t) })
	app(func() error { return parseLoops(s.LoopsDS, s.LoopsDH, t) })
	app(func() error { return parseQuad(s.TstackTmInfDS, s.TstackDH, &t.TstackS, &t.TstackH, true, "tstack") })
	app(func() error { return parseQuad(s.Tstack2DS, s.Tstack2DH, &t.Tstack2S, &t.Tstack2H, true, "tstack2") })
	app(func() error {
		var e error
		t.TriloopS, t.TriloopH, e = parseTLoops(s.TriloopDS, s.TriloopDH, 5, "triloop")
		return e
	})
	app(func() error {
		var e error
		t.TetraloopS, t.TetraloopH, e = parseTLoops(s.TetraloopDS, s.TetraloopDH, 6, "tetraloop")
		return e
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Triloop returns the bonus entry matching the five coded bases at p,
// or nil. entries must be sorted, as Parse leaves them.
func Triloop(entries []LoopEntry, p []byte) *LoopEntry {
	n := sort.Search(len(entries), func(k int) bool {
		return cmpLoop(entries[k].Seq[:5], p[:5]) >= 0
	})
	if n < len(entries) && cmpLoop(entries[n].Seq[:5], p[:5]) == 0 {
		return &entries[n]
	}
	return nil
}

// Tetraloop is Triloop for six coded bases.
func Tetraloop(entries []LoopEntry, p []byte) *LoopEntry {
	n := sort.Search(len(entries), func(k int) bool {
		return cmpLoop(entries[k].Seq[:6], p[:6]) >= 0
	})
	if n < len(entries) && cmpLoop(entries[n].Seq[:6], p[:6]) == 0 {
		return &entries[n]
	}
	return nil
}

func cmpLoop(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// tokens splits raw file content into one value per line, trimming
// blank lines.
func tokens(raw []byte) []string {
	lines := strings.Split(string(raw), "\n")
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

func parseValue(tok, file string, line int) (float64, error) {
	if strings.HasPrefix(tok, "inf") {
		return inf, nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("params: %s line %d: %w", file, line, err)
	}
	return v, nil
}

// parseQuad fills a [5][5][5][5] table pair from 256-value files. For
// the base tables (terminal=false) any N index is unreachable. The
// terminal stack tables instead treat an N on the far side of the
// stack as a strand end contributing nothing.
func parseQuad(dsRaw, dhRaw []byte, ds, dh *[5][5][5][5]float64, terminal bool, name string) error {
	dsT, dhT := tokens(dsRaw), tokens(dhRaw)
	if len(dsT) < 256 || len(dhT) < 256 {
		return fmt.Errorf("params: %s: want 256 values, have %d/%d", name, len(dsT), len(dhT))
	}
	n := 0
	for i := 0; i < 5; i++ {
		for ii := 0; ii < 5; ii++ {
			for j := 0; j < 5; j++ {
				for jj := 0; jj < 5; jj++ {
					switch {
					case !terminal && (i == 4 || ii == 4 || j == 4 || jj == 4),
						terminal && (i == 4 || j == 4):
						ds[i][ii][j][jj] = -1.0
						dh[i][ii][j][jj] = inf
					case terminal && (ii == 4 || jj == 4):
						ds[i][ii][j][jj] = TinyEntropy
						dh[i][ii][j][jj] = 0.0
					default:
						s, err := parseValue(dsT[n], name+".ds", n+1)
						if err != nil {
							return err
						}
						h, err := parseValue(dhT[n], name+".dh", n+1)
						if err != nil {
							return err
						}
						n++
						if math.IsInf(s, 0) || math.IsInf(h, 0) {
							s, h = -1.0, inf
						}
						ds[i][ii][j][jj] = s
						dh[i][ii][j][jj] = h
					}
				}
			}
		}
	}
	return nil
}

// parseDangle reads the shared dangling-end file: 64 values for the
// 3' table followed by 64 for the 5' table. The 3' block is stored
// [pair-top][dangle][pair-bottom]; the 5' block
// [pair-top][pair-bottom][dangle].
func parseDangle(dsRaw, dhRaw []byte, t *Tables) error {
	dsT, dhT := tokens(dsRaw), tokens(dhRaw)
	if len(dsT) < 128 || len(dhT) < 128 {
		return fmt.Errorf("params: dangle: want 128 values, have %d/%d", len(dsT), len(dhT))
	}
	n := 0
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			for k := 0; k < 5; k++ {
				if i == 4 || j == 4 || k == 4 {
					t.Dangle3S[i][k][j] = -1.0
					t.Dangle3H[i][k][j] = inf
					continue
				}
				s, err := parseValue(dsT[n], "dangle.ds", n+1)
				if err != nil {
					return err
				}
				h, err := parseValue(dhT[n], "dangle.dh", n+1)
				if err != nil {
					return err
				}
				n++
				if math.IsInf(s, 0) || math.IsInf(h, 0) {
					s, h = -1.0, inf
				}
				t.Dangle3S[i][k][j] = s
				t.Dangle3H[i][k][j] = h
			}
		}
	}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			for k := 0; k < 5; k++ {
				if i == 4 || j == 4 || k == 4 {
					t.Dangle5S[i][j][k] = -1.0
					t.Dangle5H[i][j][k] = inf
					continue
				}
				s, err := parseValue(dsT[n], "dangle.ds", n+1)
				if err != nil {
					return err
				}
				h, err := parseValue(dhT[n], "dangle.dh", n+1)
				if err != nil {
					return err
				}
				n++
				if math.IsInf(s, 0) || math.IsInf(h, 0) {
					s, h = -1.0, inf
				}
				t.Dangle5S[i][j][k] = s
				t.Dangle5H[i][j][k] = h
			}
		}
	}
	return nil
}

// parseLoops reads 30 rows of "size interior bulge hairpin".
func parseLoops(dsRaw, dhRaw []byte, t *Tables) error {
	read := func(raw []byte, interior, bulge, hairpin *[30]float64, file string) error {
		lines := tokens(raw)
		if len(lines) < 30 {
			return fmt.Errorf("params: %s: want 30 rows, have %d", file, len(lines))
		}
		for k := 0; k < 30; k++ {
			f := strings.Fields(lines[k])
			if len(f) != 4 {
				return fmt.Errorf("params: %s row %d: want 4 columns, have %d", file, k+1, len(f))
			}
			var err error
			if interior[k], err = parseValue(f[1], file, k+1); err != nil {
				return err
			}
			if bulge[k], err = parseValue(f[2], file, k+1); err != nil {
				return err
			}
			if hairpin[k], err = parseValue(f[3], file, k+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := read(dsRaw, &t.InteriorS, &t.BulgeS, &t.HairpinS, "loops.ds"); err != nil {
		return err
	}
	return read(dhRaw, &t.InteriorH, &t.BulgeH, &t.HairpinH, "loops.dh")
}

// parseTLoops reads "SEQ value" bonus rows and returns them sorted by
// coded sequence so lookups can binary-search.
func parseTLoops(dsRaw, dhRaw []byte, width int, name string) (ds, dh []LoopEntry, err error) {
	read := func(raw []byte, file string) ([]LoopEntry, error) {
		var out []LoopEntry
		for n, ln := range tokens(raw) {
			f := strings.Fields(ln)
			if len(f) != 2 {
				return nil, fmt.Errorf("params: %s row %d: want 2 columns, have %d", file, n+1, len(f))
			}
			if len(f[0]) != width {
				return nil, fmt.Errorf("params: %s row %d: want %d bases, have %q", file, n+1, width, f[0])
			}
			v, err := parseValue(f[1], file, n+1)
			if err != nil {
				return nil, err
			}
			var e LoopEntry
			for i := 0; i < width; i++ {
				e.Seq[i] = seq.Code(f[0][i])
			}
			e.Value = v
			out = append(out, e)
		}
		sort.Slice(out, func(a, b int) bool {
			return cmpLoop(out[a].Seq[:width], out[b].Seq[:width]) < 0
		})
		return out, nil
	}
	if ds, err = read(dsRaw, name+".ds"); err != nil {
		return nil, nil, err
	}
	if dh, err = read(dhRaw, name+".dh"); err != nil {
		return nil, nil, err
	}
	return ds, dh, nil
}
