package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/foodshare/foodshare/internal/middleware"
)

//go:embed templates static
var files embed.FS

const (
	layoutName = "layout"
	pagesDir   = "templates/pages"
)

// Renderer holds one parsed template set per page, each made of the shared
// layout and partials plus the page's own blocks.
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// New parses every page. extra adds to or replaces the default helpers; the
// image URL resolver is the usual one.
func New(extra template.FuncMap) (*Renderer, error) {
	funcs := Funcs()
	for name, fn := range extra {
		funcs[name] = fn
	}

	base, err := template.New(layoutName).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(files, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		page, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := page.ParseFS(files, p); err != nil {
			return fmt.Errorf("failed to parse %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir+"/"), ".html")
		r.pages[name] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		return missingPage(name)
	}
	return render.HTML{Template: t, Name: layoutName, Data: data}
}

// Has reports whether a page called name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

type missingPage string

func (m missingPage) Render(http.ResponseWriter) error {
	return fmt.Errorf("views: no page named %q", string(m))
}

func (m missingPage) WriteContentType(w http.ResponseWriter) {
	render.HTML{}.WriteContentType(w)
}

// Static serves the embedded css and js.
func Static() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Page adds what the layout needs on every page to data.
func Page(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = middleware.CurrentUser(c)
	data["Path"] = c.Request.URL.Path
	return data
}

// HTML renders the named page with the layout data filled in.
func HTML(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, Page(c, data))
}

// ErrorPage renders the error page for status. It is the site's
// middleware.ErrorRenderer.
func ErrorPage(c *gin.Context, status int, message string) {
	name := "error"
	switch status {
	case http.StatusNotFound:
		name = "404"
	case http.StatusForbidden:
		name = "auth/unauthorized"
	}
	HTML(c, status, name, gin.H{
		"Code":    status,
		"Title":   http.StatusText(status),
		"Message": message,
	})
}

var _ middleware.ErrorRenderer = ErrorPage
