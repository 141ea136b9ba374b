package gallery

import (
	"embed"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("gallery.html").
		Funcs(template.FuncMap{"imageSrc": imageSrc}).
		ParseFS(templateFS, "templates/gallery.html"),
)

// Page is the data rendered by Render.
type Page struct {
	Title    string
	Err      error
	Controls []Control
	NoData   bool
	Cards    []Card
	Detail   *DetailView
}

// NewPage builds the page for s. A non-nil loadErr replaces the controls with
// an error message and suppresses the grid.
func NewPage(s *State, loadErr error) Page {
	p := Page{Title: "Gallery", Err: loadErr}
	if loadErr != nil || s == nil {
		return p
	}
	p.Controls = s.Controls()
	p.NoData = len(p.Controls) == 0
	p.Cards = s.Cards()
	if d, ok := s.Detail(); ok {
		p.Detail = &d
	}
	return p
}

// Render writes the HTML page for s.
func Render(w io.Writer, s *State, loadErr error) error {
	return pageTemplate.Execute(w, NewPage(s, loadErr))
}

// imageSrc passes through image data URLs; anything else renders as an empty
// source.
func imageSrc(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return ""
}
