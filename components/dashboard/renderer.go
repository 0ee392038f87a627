package dashboard

import (
	"embed"
	"io"
	"io/fs"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/**/*.html
var embeddedTemplates embed.FS

// Renderer describes the template renderer contract needed by the controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// NewTemplateRenderer creates a go-template renderer over the embedded page
// templates. A non-nil fsys replaces them; it must hold a templates/ directory.
func NewTemplateRenderer(fsys fs.FS) (Renderer, error) {
	if fsys == nil {
		fsys = embeddedTemplates
	}
	return template.NewRenderer(
		template.WithFS(fsys),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}
