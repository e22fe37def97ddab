// Package model contains the client-side records shared across packages: the
// selected file, the active document descriptor, and chat transcript entries.
package model

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DocumentKind is the enumerated document type accepted by the backend. A
// named string type keeps the wire value and the Go constant in one place.
type DocumentKind string

const (
	KindPDF DocumentKind = "pdf"
	KindCSV DocumentKind = "csv"
)

// Valid reports whether k is one of the supported kinds.
func (k DocumentKind) Valid() bool {
	return k == KindPDF || k == KindCSV
}

// PendingFile is a candidate file selected but not yet uploaded. It has only
// been checked against local size/type rules.
type PendingFile struct {
	Name              string
	DeclaredExtension string
	SizeBytes         int64
	// Open returns a fresh reader over the raw bytes. Upload calls it once per
	// attempt and closes the result.
	Open              func() (io.ReadCloser, error)
}

// PendingFromPath stats path and builds a PendingFile whose Open reads the
// file from disk.
func PendingFromPath(path string) (PendingFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PendingFile{}, err
	}
	name := filepath.Base(path)
	return PendingFile{
		Name:              name,
		DeclaredExtension: ExtensionOf(name),
		SizeBytes:         info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// PendingFromBytes wraps in-memory content, as delivered by a drag-and-drop
// surface that already holds the bytes.
func PendingFromBytes(name string, data []byte) PendingFile {
	return PendingFile{
		Name:              name,
		DeclaredExtension: ExtensionOf(name),
		SizeBytes:         int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(string(data))), nil
		},
	}
}

// ExtensionOf returns the extension of name without the leading dot.
func ExtensionOf(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}
