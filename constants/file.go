package constants

import (
	"path/filepath"
	"strings"
)

// PDFExt is the only document extension the loader and watcher pick up.
const PDFExt = "pdf"

// AllowedExtensions holds the default allowed file extensions for document discovery.
var AllowedExtensions = map[string]struct{}{
	PDFExt: {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDF reports whether path carries a .pdf extension (any case).
func IsPDF(path string) bool {
	return NormalizeExt(filepath.Ext(path)) == PDFExt
}
