// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site
// and the admin interface. Admin pages support full-page and HTMX
// partial rendering, detected via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"folio/internal/middleware"
)

//go:embed templates/site/*.html templates/admin/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string             // Page title for <title> tag
	Section   string             // Active nav section (e.g., "blog", "projects")
	SiteName  string             // Site display name from config
	Viewer    *middleware.Viewer // Resolved viewer (anonymous if not signed in)
	CSRFToken string             // CSRF token for forms and HTMX headers
	Debug     bool               // Presentation-only debug view flag
	Data      map[string]any     // Page-specific data
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

// standaloneTemplates render as full HTML pages without a base layout.
var standaloneTemplates = map[string]bool{
	"login": true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Site and admin page templates are each paired with their
// set's base layout. When devMode is true, templates load CDN-hosted
// assets; when false, they reference local static files.
func New(devMode bool) (*Renderer, error) {
	funcMap := template.FuncMap{
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"isDev": func() bool {
			return devMode
		},
		// fmtTime formats timestamps for display; nil renders empty.
		"fmtTime": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"fmtTimeV": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"activeClass": func(current, target string) string {
			if current == target {
				return "active"
			}
			return ""
		},
		// safeHTML marks already-sanitized HTML as safe for output.
		// Only pass content that went through the sanitize package.
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, set := range []string{"site", "admin"} {
		if err := r.parseSet(set, funcMap); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (rn *Renderer) parseSet(set string, funcMap template.FuncMap) error {
	dir := "templates/" + set
	entries, err := templateFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read embedded templates %s: %w", set, err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}

		tmplName := set + "/" + name[:len(name)-len(".html")]

		var tmpl *template.Template
		var parseErr error
		if standaloneTemplates[name[:len(name)-len(".html")]] {
			tmpl, parseErr = template.New(name).Funcs(funcMap).ParseFS(
				templateFS, dir+"/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(funcMap).ParseFS(
				templateFS, dir+"/base.html", dir+"/"+name,
			)
		}
		if parseErr != nil {
			return fmt.Errorf("parse template %s: %w", tmplName, parseErr)
		}

		rn.templates[tmplName] = tmpl
	}
	return nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. The template name includes its set, e.g. "site/blog" or
// "admin/posts". For HTMX requests, only the "content" block is sent.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	rn.fill(r, data)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if isHTMX(r) {
		if err := tmpl.ExecuteTemplate(w, "content", data); err != nil {
			http.Error(w, "template error", http.StatusInternalServerError)
		}
		return
	}

	execName := "base.html"
	if tmpl.Lookup(execName) == nil {
		execName = tmpl.Name()
	}
	if err := tmpl.ExecuteTemplate(w, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// PageBytes renders a full page into a buffer instead of the response.
// The page cache uses it to capture HTML for anonymous viewers.
func (rn *Renderer) PageBytes(r *http.Request, name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	rn.fill(r, data)

	execName := "base.html"
	if tmpl.Lookup(execName) == nil {
		execName = tmpl.Name()
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// fill injects request-scoped fields the handler didn't set.
func (rn *Renderer) fill(r *http.Request, data *PageData) {
	if data.Data == nil {
		data.Data = map[string]any{}
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Viewer == nil {
		data.Viewer = middleware.ViewerFromCtx(r.Context())
	}
	data.Debug = middleware.DebugFromCtx(r.Context())
}

// WriteHTML sends pre-rendered HTML, used when serving from the page cache.
func WriteHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.Copy(w, bytes.NewReader(html))
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
