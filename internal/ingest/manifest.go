package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ManifestEntry names one document and the URL it was published at.
type ManifestEntry struct {
	Path string
	URL  string
	Line int
}

// ParseManifest reads "path,url" lines. Blank lines and lines starting with
// '#' are ignored; a line without a URL takes defaultURL.
func ParseManifest(r io.Reader, defaultURL string) ([]ManifestEntry, error) {
	var out []ManifestEntry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		path, url, _ := strings.Cut(text, ",")
		path = strings.Trim(strings.TrimSpace(path), `"`)
		url = strings.Trim(strings.TrimSpace(url), `"`)
		if path == "" {
			return nil, fmt.Errorf("manifest line %d: missing path", line)
		}
		if url == "" {
			url = defaultURL
		}
		if url == "" {
			return nil, fmt.Errorf("manifest line %d: missing url for %s", line, path)
		}
		out = append(out, ManifestEntry{Path: path, URL: url, Line: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return out, nil
}
