// Package daemon is the plain net/http static file server. It serves the
// working directory, except that "/" and "/index.html" map to a fixed file.
package daemon

import (
	"path"
	"path/filepath"
	"strings"
)

// IsIndexPath reports whether requestPath is one of the paths that map to
// the index file.
func IsIndexPath(requestPath string) bool {
	return requestPath == "/" || requestPath == "/index.html"
}

// ResolvePath translates a decoded URL path into a filesystem path under
// root. Index paths resolve to root/indexFile. Otherwise the path is cleaned
// as an absolute URL path first, so ".." consumes the segment before it and
// can never climb above root, and a trailing slash is kept to mark a
// directory request.
func ResolvePath(root, indexFile, requestPath string) string {
	if IsIndexPath(requestPath) {
		return filepath.Join(root, indexFile)
	}

	trailing := strings.HasSuffix(requestPath, "/")

	parts := []string{root}
	for _, seg := range strings.Split(path.Clean("/"+requestPath), "/") {
		if seg == "" {
			continue
		}
		// a segment must not smuggle a separator on platforms that use '\'
		if strings.ContainsRune(seg, filepath.Separator) {
			continue
		}
		parts = append(parts, seg)
	}

	resolved := filepath.Join(parts...)
	if trailing {
		resolved += string(filepath.Separator)
	}
	return resolved
}
