// internal/output/tsv.go
package output

import (
	"fmt"
	"io"
	"strings"
)

// WriteTSV prints rows as strict machine-readable columns. Structure
// rows collapse into one pipe-joined field, with their inner tabs
// flattened to spaces so each record stays one tab-delimited line.
func WriteTSV(w io.Writer, rows []Row, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, "id\tkind\tfound\ttm\tdg\tdh\tds\tstructure"); err != nil {
			return err
		}
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "%s\t%s\t%t\t%.2f\t%.2f\t%.2f\t%.4f\t%s\n",
			r.ID, r.Kind, r.Found, r.Tm, r.DG, r.DH, r.DS,
			strings.ReplaceAll(strings.Join(r.Structure, "|"), "\t", " "))
		if err != nil {
			return err
		}
	}
	return nil
}
