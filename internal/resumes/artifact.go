package resumes

import (
	"path/filepath"
	"strings"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionTypes = map[string]string{
	".pdf":  MimePDF,
	".doc":  MimeDOC,
	".docx": MimeDOCX,
}

// Artifact is a stored resume as referenced by an application.
type Artifact struct {
	Key         string `json:"key"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	// Fresh marks an object stored by the current request. Only fresh
	// artifacts are removed when the request that stored them fails.
	Fresh bool `json:"-"`
}

// typeFor resolves the canonical content type from the file extension. A
// declared content type, when present, must agree with it.
func typeFor(fileName, declared string) (string, bool) {
	want, ok := extensionTypes[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return "", false
	}
	declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	switch declared {
	case "", "application/octet-stream", want:
		return want, true
	case "application/zip":
		return want, want == MimeDOCX
	default:
		return "", false
	}
}
