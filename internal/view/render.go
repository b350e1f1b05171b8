package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Renderer executes the page templates. Each page is parsed together with
// the layout and the partials so pages can override "title" and "content".
type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

func NewRenderer(fsys fs.FS) (*Renderer, error) {
	partials, err := template.ParseFS(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}

	files, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files)), partials: partials}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		t, err := template.ParseFS(fsys, "layout.html", "partials/*.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// Page renders a full page. Output is buffered so a template error never
// leaves a half-written response.
func (r *Renderer) Page(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	return write(w, status, &buf)
}

// Fragment renders a single partial, e.g. the suggestion list.
func (r *Renderer) Fragment(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.partials.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return write(w, status, &buf)
}

func write(w http.ResponseWriter, status int, body io.Reader) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := io.Copy(w, body)
	return err
}
