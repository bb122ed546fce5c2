package http

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticAssets embed.FS

// StaticHandler serves the embedded single page app. The service worker and
// manifest must be reachable at the site root, so the whole static tree is
// mounted at "/".
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticAssets, "static")
	if err != nil {
		// The subtree is part of the binary; a failure here is a build defect.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
