// Package web provides embedded static assets (CSS, JS) served at /static/.
// In development the admin layout loads HTMX from CDN; in production the
// vendored copy is embedded here.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
