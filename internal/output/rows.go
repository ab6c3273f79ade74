// internal/output/rows.go
package output

import (
	"thermalign-core/thal"
)

// Row is one analysis result in every output format.
type Row struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Found     bool     `json:"found"`
	DH        float64  `json:"dh"`
	DS        float64  `json:"ds"`
	DG        float64  `json:"dg"`
	Tm        float64  `json:"tm"`
	End1      int      `json:"end1,omitempty"`
	End2      int      `json:"end2,omitempty"`
	Structure []string `json:"structure,omitempty"`
}

// FromResult flattens an alignment result into a Row.
func FromResult(id string, kind thal.Kind, r thal.Result) Row {
	return Row{
		ID:        id,
		Kind:      kind.String(),
		Found:     r.StructureFound,
		DH:        r.DH,
		DS:        r.DS,
		DG:        r.DG,
		Tm:        r.Tm,
		End1:      r.AlignEnd1,
		End2:      r.AlignEnd2,
		Structure: r.Lines,
	}
}

// TmRow wraps a bare melting temperature (oligotm) as a Row.
func TmRow(id string, tm float64) Row {
	return Row{ID: id, Kind: "tm", Found: true, Tm: tm}
}
