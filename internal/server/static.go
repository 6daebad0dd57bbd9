package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// entryPoint maps an application route to its pre-built HTML document
type entryPoint struct {
	Route string
	File  string
}

const indexFile = "index.html"

var entryPoints = []entryPoint{
	{Route: "/", File: indexFile},
	{Route: "/dashboard", File: "dashboard/index.html"},
	{Route: "/network-test", File: "network-test/index.html"},
}

// assets serves files out of a single build directory
type assets struct {
	root string
}

func newAssets(root string) *assets {
	return &assets{root: root}
}

// present reports whether the build output has a top-level entry point
func (a *assets) present() bool {
	info, err := os.Stat(filepath.Join(a.root, indexFile))
	return err == nil && !info.IsDir()
}

func (a *assets) serveEntry(file string) gin.HandlerFunc {
	full := filepath.Join(a.root, filepath.FromSlash(file))
	return func(c *gin.Context) {
		sendFile(c, full)
	}
}

// serveFallback serves an existing build file for the path, or the top-level entry point
func (a *assets) serveFallback(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	if file, ok := a.resolve(c.Request.URL.Path); ok {
		sendFile(c, file)
		return
	}

	sendFile(c, filepath.Join(a.root, indexFile))
}

// sendFile writes the file at name as-is. Unlike c.File it never redirects
// or rejects the request URL, since the path was already resolved.
func sendFile(c *gin.Context, name string) {
	f, err := os.Open(name)
	if err != nil {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

// resolve maps a URL path to a regular file inside the build directory.
// Directories resolve to their index.html when one exists.
func (a *assets) resolve(urlPath string) (string, bool) {
	// Rooting before Clean strips any leading ".." so the join stays under root
	clean := path.Clean("/" + urlPath)
	full := filepath.Join(a.root, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	if err != nil {
		return "", false
	}

	if info.IsDir() {
		index := filepath.Join(full, indexFile)
		if fi, err := os.Stat(index); err == nil && !fi.IsDir() {
			return index, true
		}
		return "", false
	}

	return full, true
}
