// Package sanitize strips unsafe HTML from rendered content before it
// reaches a page. Post bodies pass through it after Markdown conversion,
// comments before storage. Sanitization is idempotent.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var (
	// postPolicy covers rendered Markdown: the full UGC set plus the
	// classes chroma emits for syntax-highlighted code blocks.
	postPolicy = newPostPolicy()

	// commentPolicy is strict: comments render as plain text with line
	// breaks, nothing else survives.
	commentPolicy = bluemonday.StrictPolicy()
)

func newPostPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("pre", "code", "span", "div")
	p.AllowAttrs("style").OnElements("pre", "span")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// PostHTML sanitizes HTML produced from a post's Markdown body.
func PostHTML(rawHTML string) string {
	return postPolicy.Sanitize(rawHTML)
}

// CommentText strips all markup from comment content, leaving text only.
func CommentText(raw string) string {
	return commentPolicy.Sanitize(raw)
}
