// Package extract inspects uploaded résumé binaries before they are stored.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/ledongthuc/pdf"
)

const MimePDF = "application/pdf"

var pdfMagic = []byte("%PDF-")

// ErrNotPDF is returned when a payload is not a readable PDF document.
var ErrNotPDF = errors.New("pdf only")

// PDFInfo describes a parsed PDF.
type PDFInfo struct {
	Pages int
	Size  int64
}

// InspectPDF checks the magic bytes and parses the cross-reference table so a
// renamed or truncated file is rejected before it reaches the engine.
func InspectPDF(data []byte) (PDFInfo, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return PDFInfo{}, ErrNotPDF
	}
	if sniffed := http.DetectContentType(data); sniffed != MimePDF {
		return PDFInfo{}, ErrNotPDF
	}
	pages, err := pageCount(data)
	if err != nil {
		return PDFInfo{}, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	if pages < 1 {
		return PDFInfo{}, fmt.Errorf("%w: no pages", ErrNotPDF)
	}
	return PDFInfo{Pages: pages, Size: int64(len(data))}, nil
}

func pageCount(data []byte) (pages int, err error) {
	// the parser panics on some malformed trailers
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}
