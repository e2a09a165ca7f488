package daemon

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/hlog"
)

// Handler serves files below Root. Files go through http.ServeContent
// (content type, ranges, conditional requests); directories are handed to
// http.FileServer for redirects, index.html and listings.
type Handler struct {
	root      string
	indexFile string
	dirs      http.Handler
}

// NewHandler returns a Handler for root with the given index file name
func NewHandler(root, indexFile string) (*Handler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Handler{
		root:      abs,
		indexFile: indexFile,
		dirs:      http.FileServer(http.Dir(abs)),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Unsupported method ("+r.Method+")", http.StatusNotImplemented)
		return
	}

	upath := r.URL.Path
	if !strings.HasPrefix(upath, "/") {
		upath = "/" + upath
	}

	fsPath := ResolvePath(h.root, h.indexFile, upath)

	info, err := os.Stat(fsPath)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Str("file", fsPath).Msg("Cannot stat requested path")
		writeStatError(w, err)
		return
	}

	if info.IsDir() {
		if IsIndexPath(upath) {
			http.NotFound(w, r)
			return
		}
		h.dirs.ServeHTTP(w, r)
		return
	}

	// a file cannot be addressed as a directory
	if strings.HasSuffix(upath, "/") && !IsIndexPath(upath) {
		http.NotFound(w, r)
		return
	}

	h.serveFile(w, r, fsPath)
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, fsPath string) {
	f, err := os.Open(fsPath)
	if err != nil {
		writeStatError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeStatError(w, err)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func writeStatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		http.Error(w, "404 page not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "403 Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}
