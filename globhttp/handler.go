// Package globhttp exposes a chi route handler that lists the filesystem
// entries a Glob matches under some root directory, grounded on
// pkg/handler/fileserver.go's chi wiring and pkg/swhttp/fs.go's dirList
// listing/breadcrumb shape, re-targeted at glob-matched entries instead of
// a bare directory read.
package globhttp

import (
	"encoding/json"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/koblas/goglob/glob"
	"github.com/koblas/goglob/internal/logx"
)

// entry is one matched path rendered back to the client.
type entry struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	IsDir bool   `json:"isDir"`
}

type listResult struct {
	Root    string  `json:"root"`
	Pattern string  `json:"pattern"`
	Entries []entry `json:"entries"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler returns an http.Handler that lists g's matches under root on
// every request. If mounted behind a chi route carrying a trailing "*"
// wildcard (see Mount), the captured path overrides the configured root,
// the same way fileserver.go's sendFile derives its serving path from
// chi's RouteContext rather than a value fixed at construction time.
// followLinks mirrors the list call's default of true.
func Handler(root string, g *glob.Glob) http.Handler {
	return &globHandler{root: root, g: g, followLinks: true, logger: logx.New(false)}
}

// Mount registers Handler at pattern on r, plus a trailing "/*" wildcard
// route so callers can list an arbitrary subdirectory (including nested
// paths) through one route, the same chi greedy-wildcard idiom
// fileserver.go's sendFile relies on via chi.RouteContext. debug toggles
// the same on/off request logging cmd/goglob's --debug flag does.
func Mount(r chi.Router, pattern string, defaultRoot string, g *glob.Glob, debug bool) {
	h := &globHandler{root: defaultRoot, g: g, followLinks: true, logger: logx.New(debug)}
	r.Get(pattern, h.ServeHTTP)
	r.Get(strings.TrimSuffix(pattern, "/")+"/*", h.ServeHTTP)
}

type globHandler struct {
	root        string
	g           *glob.Glob
	followLinks bool
	logger      logx.Logger
}

func (h *globHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	root := h.root
	if fromRoute := chi.URLParam(r, "*"); fromRoute != "" {
		root = "/" + fromRoute
	}
	h.logger.Debug("listing request", "pattern", h.g.String(), "root", root)

	matches, err := h.g.ListSync(glob.ListOptions{FollowLinks: h.followLinks, Root: root})
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	entries := make([]entry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, entry{
			Path:  m,
			Name:  path.Base(m),
			IsDir: strings.HasSuffix(m, "/"),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	result := listResult{Root: root, Pattern: h.g.String(), Entries: entries}

	if acceptJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(result)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writeHTMLListing(w, result)
}

// acceptJSON mirrors pkg/swhttp/fs.go's acceptJSON: clients asking for
// application/json get the structured body instead of the HTML fallback.
func acceptJSON(r *http.Request) bool {
	for _, v := range r.Header[http.CanonicalHeaderKey("accept")] {
		if strings.Contains(strings.ToLower(v), "application/json") {
			return true
		}
	}
	return false
}

func writeHTMLListing(w http.ResponseWriter, result listResult) {
	var b strings.Builder
	b.WriteString("<pre>\n")
	for _, e := range result.Entries {
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		b.WriteString("<a href=\"")
		b.WriteString(e.Path)
		b.WriteString("\">")
		b.WriteString(name)
		b.WriteString("</a>\n")
	}
	b.WriteString("</pre>\n")
	w.Write([]byte(b.String()))
}

// sendError mirrors pkg/swhttp/fs.go's sendError shape: a small JSON or
// HTML error body distinguishing not-found from other failures.
func (h *globHandler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	body := errorBody{Code: "internal_server_error", Message: "A server error has occurred"}

	var fsErr *glob.FilesystemError
	var ctxErr *glob.ContextMismatchError
	switch {
	case errors.As(err, &fsErr) && fsErr.NotFound:
		statusCode = http.StatusNotFound
		body = errorBody{Code: "not_found", Message: "The requested root could not be found"}
	case errors.As(err, &ctxErr):
		statusCode = http.StatusBadRequest
		body = errorBody{Code: "bad_request", Message: "Glob context does not match the running platform"}
	}

	w.WriteHeader(statusCode)
	if acceptJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(struct {
			Error errorBody `json:"error"`
		}{body})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<h1>" + body.Message + "</h1>"))
}
