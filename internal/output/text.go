// internal/output/text.go
package output

import (
	"fmt"
	"io"
)

// WriteText prints one line per row plus any structure lines beneath it.
func WriteText(w io.Writer, rows []Row, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, "id\tkind\tTm\tdG\tdH\tdS"); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if !r.Found {
			if _, err := fmt.Fprintf(w, "%s\t%s\tno structure\n", r.ID, r.Kind); err != nil {
				return err
			}
			continue
		}
		if r.Kind == "tm" {
			// Bare melting temperatures carry no structure energetics.
			if _, err := fmt.Fprintf(w, "%s\t%s\t%.2f\n", r.ID, r.Kind, r.Tm); err != nil {
				return err
			}
			continue
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.4f\n",
			r.ID, r.Kind, r.Tm, r.DG, r.DH, r.DS)
		if err != nil {
			return err
		}
		for _, line := range r.Structure {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
