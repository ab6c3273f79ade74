// internal/output/json.go
package output

import (
	"encoding/json"
	"io"
)

// WriteJSON prints rows as one indented JSON array.
func WriteJSON(w io.Writer, rows []Row, _ bool) error {
	if rows == nil {
		rows = []Row{}
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
