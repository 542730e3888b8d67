package resumes

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// checkBody makes sure the payload really is the declared kind of document.
func checkBody(contentType string, data []byte) error {
	switch contentType {
	case MimePDF:
		return checkPDF(data)
	case MimeDOCX:
		return checkDOCX(data)
	case MimeDOC:
		if !bytes.HasPrefix(data, oleMagic) {
			return fmt.Errorf("not a Word 97-2003 document")
		}
		return nil
	default:
		return fmt.Errorf("unsupported content type %q", contentType)
	}
}

func checkPDF(data []byte) error {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("unreadable pdf: %w", err)
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("pdf has no pages")
	}
	return nil
}

func checkDOCX(data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("unreadable docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return nil
		}
	}
	return fmt.Errorf("docx is missing word/document.xml")
}
