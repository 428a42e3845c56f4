// Package view renders the posts page and handles the draft form.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/devaloi/postboard/internal/collection"
	"github.com/devaloi/postboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders the container page and the list fragment.
type Renderer struct {
	tmpl     *template.Template
	title    string
	livePath string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithTitle sets the page title.
func WithTitle(title string) RendererOption {
	return func(r *Renderer) { r.title = title }
}

// WithLivePath makes pages connect to the live websocket at path.
func WithLivePath(path string) RendererOption {
	return func(r *Renderer) { r.livePath = path }
}

// NewRenderer parses the embedded templates.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{tmpl: tmpl, title: "Posts"}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type pageData struct {
	Title    string
	LivePath string
	State    collection.State
	Form     Form
}

// Page renders the whole page. Exactly one of the loading indicator, the
// error indicator or the form and list is shown.
func (r *Renderer) Page(w io.Writer, st collection.State, f Form) error {
	return r.tmpl.ExecuteTemplate(w, "page", pageData{
		Title:    r.title,
		LivePath: r.livePath,
		State:    st,
		Form:     f,
	})
}

// List renders the list fragment, or the "no posts" placeholder.
func (r *Renderer) List(w io.Writer, items []domain.Post) error {
	return r.tmpl.ExecuteTemplate(w, "list", items)
}

// Frame builds the live frame for st. The list fragment is included only
// when the list is what a page would show.
func (r *Renderer) Frame(st collection.State) (domain.Frame, error) {
	f := domain.Frame{Type: domain.FrameState, View: st.View(), Version: st.Version}
	if f.View == domain.ViewList {
		var buf bytes.Buffer
		if err := r.List(&buf, st.Items); err != nil {
			return domain.Frame{}, err
		}
		f.HTML = buf.String()
	}
	return f, nil
}
