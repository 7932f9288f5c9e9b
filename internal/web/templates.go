// Package web holds the embedded HTML templates and the view engine.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var files embed.FS

// Engine returns the view engine over the embedded templates. Embedding keeps
// rendering independent of the process working directory.
func Engine() *html.Engine {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// Layout is the shared page layout used by every rendered view.
const Layout = "layouts/main"
