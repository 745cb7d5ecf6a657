package extract

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// minimalPDF builds a one-page document with a correct xref table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestInspectPDF(t *testing.T) {
	data := minimalPDF()
	info, err := InspectPDF(data)
	if err != nil {
		t.Fatalf("InspectPDF: %v", err)
	}
	if info.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", info.Pages)
	}
	if info.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), info.Size)
	}
}

func TestInspectPDFRejectsOtherFormats(t *testing.T) {
	inputs := map[string][]byte{
		"empty":     nil,
		"text":      []byte("hello, this is not a pdf"),
		"docx zip":  []byte("PK\x03\x04 word/document.xml"),
		"truncated": []byte("%PDF-1.4\n1 0 obj\n"),
	}
	for name, data := range inputs {
		if _, err := InspectPDF(data); !errors.Is(err, ErrNotPDF) {
			t.Fatalf("%s: expected ErrNotPDF, got %v", name, err)
		}
	}
}
