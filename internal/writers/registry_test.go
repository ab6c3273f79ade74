// internal/writers/registry_test.go
package writers

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"thermalign/internal/output"
)

func TestWriteDispatch(t *testing.T) {
	rows := []output.Row{{ID: "x", Kind: "tm", Found: true, Tm: 50}}
	for _, format := range []string{"text", "tsv", "json"} {
		var b bytes.Buffer
		if err := Write(format, &b, rows, true); err != nil {
			t.Errorf("%s: %v", format, err)
		}
		if !strings.Contains(b.String(), "x") {
			t.Errorf("%s: row missing:\n%s", format, b.String())
		}
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var b bytes.Buffer
	err := Write("xml", &b, nil, false)
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("want unknown-format error, got %v", err)
	}
}

func TestFormats(t *testing.T) {
	want := []string{"json", "text", "tsv"}
	if got := Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}
