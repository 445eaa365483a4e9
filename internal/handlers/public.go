// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/cache"
	"folio/internal/markdown"
	"folio/internal/metrics"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/sanitize"
	"folio/internal/store"
	"folio/internal/visibility"
)

// Public groups handlers for the visitor-facing site: homepage, blog,
// portfolio, and comments. Anonymous page loads check the Valkey page
// cache before hitting the database; signed-in viewers always render
// fresh, since their pages can include private posts.
type Public struct {
	renderer  *render.Renderer
	posts     *store.PostStore
	comments  *store.CommentStore
	projects  *store.ProjectStore
	pageCache *cache.PageCache
	collector *metrics.Collector
	siteName  string
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, posts *store.PostStore, comments *store.CommentStore, projects *store.ProjectStore, pageCache *cache.PageCache, collector *metrics.Collector, siteName string) *Public {
	return &Public{
		renderer:  renderer,
		posts:     posts,
		comments:  comments,
		projects:  projects,
		pageCache: pageCache,
		collector: collector,
		siteName:  siteName,
	}
}

// homePostLimit caps how many recent posts the homepage shows.
const homePostLimit = 5

// Home renders the homepage with the most recent visible posts.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromCtx(r.Context())

	if html, ok := p.cachedPage(r, cache.HomeKey); ok {
		render.WriteHTML(w, html)
		return
	}

	posts, err := p.posts.ListPublished(r.Context())
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	visible := visibility.VisiblePosts(posts, viewer.IsAdmin)
	if len(visible) > homePostLimit {
		visible = visible[:homePostLimit]
	}

	data := &render.PageData{
		Title:    "Home",
		Section:  "home",
		SiteName: p.siteName,
		Data:     map[string]any{"Posts": visible},
	}
	p.renderOrCache(w, r, "site/home", cache.HomeKey, data)
}

// Blog renders the public post index, filtered for the viewer.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromCtx(r.Context())

	if html, ok := p.cachedPage(r, cache.BlogIndexKey); ok {
		render.WriteHTML(w, html)
		return
	}

	posts, err := p.posts.ListPublished(r.Context())
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := &render.PageData{
		Title:    "Blog",
		Section:  "blog",
		SiteName: p.siteName,
		Data:     map[string]any{"Posts": visibility.VisiblePosts(posts, viewer.IsAdmin)},
	}
	p.renderOrCache(w, r, "site/blog", cache.BlogIndexKey, data)
}

// Post renders one post with its rendered body and comments. Drafts and
// private posts a viewer may not see return 404, not 403 — their
// existence is not disclosed.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middleware.ViewerFromCtx(ctx)
	slugParam := chi.URLParam(r, "slug")

	if html, ok := p.cachedPage(r, cache.PostKey(slugParam)); ok {
		render.WriteHTML(w, html)
		return
	}

	post, err := p.posts.FindBySlug(ctx, slugParam)
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !visibility.CanView(post, viewer.IsAdmin) {
		http.NotFound(w, r)
		return
	}

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Error("render post markdown failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	comments, err := p.comments.ListByPost(ctx, post.ID)
	if err != nil {
		slog.Error("list comments failed", "error", err, "post_id", post.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := &render.PageData{
		Title:    post.Title,
		Section:  "blog",
		SiteName: p.siteName,
		Data: map[string]any{
			"Post":        post,
			"ContentHTML": sanitize.PostHTML(contentHTML),
			"Comments":    comments,
		},
	}

	// Private posts never enter the shared cache.
	if post.IsPrivate {
		p.renderer.Page(w, r, "site/post", data)
		return
	}
	p.renderOrCache(w, r, "site/post", cache.PostKey(slugParam), data)
}

// Projects renders the portfolio page.
func (p *Public) Projects(w http.ResponseWriter, r *http.Request) {
	if html, ok := p.cachedPage(r, cache.ProjectsKey); ok {
		render.WriteHTML(w, html)
		return
	}

	projects, err := p.projects.List(r.Context())
	if err != nil {
		slog.Error("list projects failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := &render.PageData{
		Title:    "Projects",
		Section:  "projects",
		SiteName: p.siteName,
		Data:     map[string]any{"Projects": projects},
	}
	p.renderOrCache(w, r, "site/projects", cache.ProjectsKey, data)
}

// Login renders the sign-in page. Already signed-in viewers go home.
func (p *Public) Login(w http.ResponseWriter, r *http.Request) {
	if middleware.ViewerFromCtx(r.Context()).SignedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	p.renderer.Page(w, r, "site/login", &render.PageData{
		Title:    "Sign in",
		SiteName: p.siteName,
	})
}

// CreateComment stores a comment on a post. Requires a signed-in viewer
// (enforced by the router); author fields come from the session, never
// the form.
func (p *Public) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middleware.ViewerFromCtx(ctx)
	slugParam := chi.URLParam(r, "slug")

	post, err := p.posts.FindBySlug(ctx, slugParam)
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !visibility.CanView(post, viewer.IsAdmin) {
		http.NotFound(w, r)
		return
	}

	content := sanitize.CommentText(r.FormValue("content"))
	if msg := validateComment(content); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	sess := viewer.Session
	comment := &models.Comment{
		PostID:      post.ID,
		Content:     content,
		Author:      sess.DisplayName,
		AuthorEmail: sess.Email,
	}
	if sess.PhotoURL != "" {
		comment.AuthorPhoto = &sess.PhotoURL
	}
	if comment.Author == "" {
		comment.Author = sess.Email
	}

	if _, err := p.comments.Create(ctx, comment); err != nil {
		slog.Error("create comment failed", "error", err, "post_id", post.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.collector.RecordCommentSaved()
	p.pageCache.Invalidate(ctx, cache.PostKey(slugParam))
	http.Redirect(w, r, "/blog/"+slugParam+"#comments", http.StatusSeeOther)
}

// DeleteComment removes a comment from a post page. Admin only
// (enforced by the router).
func (p *Public) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	if err := p.comments.Delete(ctx, id); err != nil {
		slog.Error("delete comment failed", "error", err, "comment_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Invalidate(ctx, cache.PostKey(slugParam))
	http.Redirect(w, r, "/blog/"+slugParam+"#comments", http.StatusSeeOther)
}

// cachedPage returns a cached page when the viewer is anonymous and the
// request carries no presentation flags. Hits and misses are counted.
func (p *Public) cachedPage(r *http.Request, key string) ([]byte, bool) {
	if !p.cacheable(r) {
		return nil, false
	}
	html, ok := p.pageCache.Get(r.Context(), key)
	if ok {
		p.collector.RecordCacheHit()
	} else {
		p.collector.RecordCacheMiss()
	}
	return html, ok
}

// renderOrCache renders the page, storing the HTML for future anonymous
// requests when the current one is cacheable.
func (p *Public) renderOrCache(w http.ResponseWriter, r *http.Request, name, key string, data *render.PageData) {
	if !p.cacheable(r) {
		p.renderer.Page(w, r, name, data)
		return
	}

	html, err := p.renderer.PageBytes(r, name, data)
	if err != nil {
		slog.Error("render page failed", "error", err, "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	p.pageCache.Set(r.Context(), key, html)
	render.WriteHTML(w, html)
}

func (p *Public) cacheable(r *http.Request) bool {
	return !middleware.ViewerFromCtx(r.Context()).SignedIn() && !middleware.DebugFromCtx(r.Context())
}
