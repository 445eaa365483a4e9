// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the folio site.
// Handlers are grouped by concern (public, auth, admin) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/cache"
	"folio/internal/metrics"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/slug"
	"folio/internal/storage"
	"folio/internal/store"
)

// maxUploadSize is the maximum allowed image upload size (10 MB).
const maxUploadSize = 10 << 20

// allowedImageTypes lists the content types accepted for image uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Admin groups all admin panel HTTP handlers and their dependencies.
// storageClient may be nil when S3 is not configured; uploads are then
// rejected with a clear message.
type Admin struct {
	renderer      *render.Renderer
	posts         *store.PostStore
	comments      *store.CommentStore
	users         *store.UserStore
	projects      *store.ProjectStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
	collector     *metrics.Collector
	siteName      string
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, posts *store.PostStore, comments *store.CommentStore, users *store.UserStore, projects *store.ProjectStore, storageClient *storage.Client, pageCache *cache.PageCache, collector *metrics.Collector, siteName string) *Admin {
	return &Admin{
		renderer:      renderer,
		posts:         posts,
		comments:      comments,
		users:         users,
		projects:      projects,
		storageClient: storageClient,
		pageCache:     pageCache,
		collector:     collector,
		siteName:      siteName,
	}
}

// Dashboard shows content counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := a.posts.ListAll(ctx)
	if err != nil {
		a.serverError(w, "list posts failed", err)
		return
	}
	drafts := 0
	for _, p := range posts {
		if p.IsDraft {
			drafts++
		}
	}

	comments, err := a.comments.ListAll(ctx)
	if err != nil {
		a.serverError(w, "list comments failed", err)
		return
	}
	users, err := a.users.List(ctx)
	if err != nil {
		a.serverError(w, "list users failed", err)
		return
	}

	a.renderer.Page(w, r, "admin/dashboard", &render.PageData{
		Title:    "Dashboard",
		Section:  "dashboard",
		SiteName: a.siteName,
		Data: map[string]any{
			"PostCount":    len(posts),
			"DraftCount":   drafts,
			"CommentCount": len(comments),
			"UserCount":    len(users),
		},
	})
}

// Posts lists every post, drafts and private included.
func (a *Admin) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.ListAll(r.Context())
	if err != nil {
		a.serverError(w, "list posts failed", err)
		return
	}

	a.renderer.Page(w, r, "admin/posts", &render.PageData{
		Title:    "Posts",
		Section:  "posts",
		SiteName: a.siteName,
		Data:     map[string]any{"Posts": posts},
	})
}

// NewPost shows the empty post editor.
func (a *Admin) NewPost(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "admin/post_edit", &render.PageData{
		Title:    "New post",
		Section:  "posts",
		SiteName: a.siteName,
		Data:     map[string]any{"Action": "/admin/posts/new"},
	})
}

// EditPost shows the editor for an existing post.
func (a *Admin) EditPost(w http.ResponseWriter, r *http.Request) {
	post, ok := a.findPost(w, r)
	if !ok {
		return
	}

	a.renderer.Page(w, r, "admin/post_edit", &render.PageData{
		Title:    "Edit post",
		Section:  "posts",
		SiteName: a.siteName,
		Data: map[string]any{
			"Post":      post,
			"Action":    "/admin/posts/" + post.ID.String(),
			"TagsValue": strings.Join(post.Tags, ", "),
		},
	})
}

// CreatePost stores a new post from the editor form.
func (a *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, msg := a.parsePostForm(w, r)
	if msg != "" {
		a.postEditError(w, r, nil, "/admin/posts/new", msg)
		return
	}

	sess := middleware.ViewerFromCtx(ctx).Session
	post := &models.BlogPost{
		Title:       form.title,
		Slug:        a.uniqueSlug(ctx, slug.Generate(form.title)),
		Content:     form.content,
		Author:      sess.DisplayName,
		AuthorEmail: sess.Email,
		Tags:        form.tags,
		IsPrivate:   form.isPrivate,
		IsDraft:     form.isDraft,
	}
	if sess.PhotoURL != "" {
		post.AuthorPhoto = &sess.PhotoURL
	}
	if post.Author == "" {
		post.Author = sess.Email
	}
	if form.imageURL != "" {
		post.FeaturedImage = &form.imageURL
	}

	created, err := a.posts.Create(ctx, post)
	if err != nil {
		a.serverError(w, "create post failed", err)
		return
	}

	a.collector.RecordPostSaved()
	a.pageCache.InvalidateAll(ctx)
	http.Redirect(w, r, "/admin/posts/"+created.ID.String(), http.StatusSeeOther)
}

// UpdatePost saves changes to an existing post. The slug is kept stable
// so published URLs never break; the published timestamp is stamped by
// the store on the first draft-to-published transition only.
func (a *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, ok := a.findPost(w, r)
	if !ok {
		return
	}

	form, msg := a.parsePostForm(w, r)
	if msg != "" {
		a.postEditError(w, r, post, "/admin/posts/"+post.ID.String(), msg)
		return
	}

	var oldImage string
	if post.FeaturedImage != nil {
		oldImage = *post.FeaturedImage
	}

	post.Title = form.title
	post.Content = form.content
	post.Tags = form.tags
	post.IsPrivate = form.isPrivate
	post.IsDraft = form.isDraft
	if form.imageURL != "" {
		post.FeaturedImage = &form.imageURL
	}

	if err := a.posts.Update(ctx, post); err != nil {
		a.serverError(w, "update post failed", err)
		return
	}

	if form.imageURL != "" && form.imageURL != oldImage {
		a.deleteStoredImage(ctx, oldImage)
	}

	a.collector.RecordPostSaved()
	a.pageCache.InvalidateAll(ctx)
	http.Redirect(w, r, "/admin/posts/"+post.ID.String(), http.StatusSeeOther)
}

// DeletePost removes a post; its comments go with it (FK cascade).
func (a *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, ok := a.findPost(w, r)
	if !ok {
		return
	}

	if err := a.posts.Delete(ctx, post.ID); err != nil {
		a.serverError(w, "delete post failed", err)
		return
	}

	if post.FeaturedImage != nil {
		a.deleteStoredImage(ctx, *post.FeaturedImage)
	}
	a.pageCache.InvalidateAll(ctx)
	slog.Info("post deleted", "post_id", post.ID, "title", post.Title)
	a.Posts(w, r)
}

// Comments lists every comment across all posts.
func (a *Admin) Comments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.comments.ListAll(r.Context())
	if err != nil {
		a.serverError(w, "list comments failed", err)
		return
	}

	a.renderer.Page(w, r, "admin/comments", &render.PageData{
		Title:    "Comments",
		Section:  "comments",
		SiteName: a.siteName,
		Data:     map[string]any{"Comments": comments},
	})
}

// DeleteComment removes a comment. This is the only moderation action:
// comments are never hidden, only deleted.
func (a *Admin) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	if err := a.comments.Delete(ctx, id); err != nil {
		a.serverError(w, "delete comment failed", err)
		return
	}

	a.pageCache.InvalidateAll(ctx)
	a.Comments(w, r)
}

// Users lists all signed-in users and their roles.
func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		a.serverError(w, "list users failed", err)
		return
	}

	a.renderer.Page(w, r, "admin/users", &render.PageData{
		Title:    "Users",
		Section:  "users",
		SiteName: a.siteName,
		Data:     map[string]any{"Users": users},
	})
}

// SetUserRole grants or revokes the admin role. Writing an explicit
// 'user' role also ends any bootstrap-email fallback for that account.
func (a *Admin) SetUserRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := chi.URLParam(r, "uid")

	role := models.Role(r.FormValue("role"))
	if !role.Valid() {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	// An admin cannot demote themselves: losing your own admin session
	// mid-request leaves the site without a way back in.
	viewer := middleware.ViewerFromCtx(ctx)
	if uid == viewer.Session.UID && role != models.RoleAdmin {
		http.Error(w, "cannot demote yourself", http.StatusBadRequest)
		return
	}

	if err := a.users.SetRole(ctx, uid, role); err != nil {
		a.serverError(w, "set role failed", err)
		return
	}

	slog.Info("user role changed", "uid", uid, "role", role)
	a.Users(w, r)
}

// Projects lists all portfolio projects.
func (a *Admin) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := a.projects.List(r.Context())
	if err != nil {
		a.serverError(w, "list projects failed", err)
		return
	}

	a.renderer.Page(w, r, "admin/projects", &render.PageData{
		Title:    "Projects",
		Section:  "projects",
		SiteName: a.siteName,
		Data:     map[string]any{"Projects": projects},
	})
}

// NewProject shows the empty project editor.
func (a *Admin) NewProject(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "admin/project_edit", &render.PageData{
		Title:    "New project",
		Section:  "projects",
		SiteName: a.siteName,
		Data:     map[string]any{"Action": "/admin/projects/new"},
	})
}

// EditProject shows the editor for an existing project.
func (a *Admin) EditProject(w http.ResponseWriter, r *http.Request) {
	project, ok := a.findProject(w, r)
	if !ok {
		return
	}

	a.renderer.Page(w, r, "admin/project_edit", &render.PageData{
		Title:    "Edit project",
		Section:  "projects",
		SiteName: a.siteName,
		Data: map[string]any{
			"Project":   project,
			"Action":    "/admin/projects/" + project.ID.String(),
			"TagsValue": strings.Join(project.Tags, ", "),
		},
	})
}

// CreateProject stores a new project from the editor form.
func (a *Admin) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, msg := a.parseProjectForm(w, r, &models.Project{})
	if msg != "" {
		a.projectEditError(w, r, nil, "/admin/projects/new", msg)
		return
	}

	if _, err := a.projects.Create(ctx, project); err != nil {
		a.serverError(w, "create project failed", err)
		return
	}

	a.pageCache.Invalidate(ctx, cache.ProjectsKey)
	http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
}

// UpdateProject saves changes to an existing project.
func (a *Admin) UpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, ok := a.findProject(w, r)
	if !ok {
		return
	}

	var oldImage string
	if project.Image != nil {
		oldImage = *project.Image
	}

	updated, msg := a.parseProjectForm(w, r, project)
	if msg != "" {
		a.projectEditError(w, r, project, "/admin/projects/"+project.ID.String(), msg)
		return
	}

	if err := a.projects.Update(ctx, updated); err != nil {
		a.serverError(w, "update project failed", err)
		return
	}

	if updated.Image != nil && *updated.Image != oldImage {
		a.deleteStoredImage(ctx, oldImage)
	}

	a.pageCache.Invalidate(ctx, cache.ProjectsKey)
	http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
}

// DeleteProject removes a project.
func (a *Admin) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, ok := a.findProject(w, r)
	if !ok {
		return
	}

	if err := a.projects.Delete(ctx, project.ID); err != nil {
		a.serverError(w, "delete project failed", err)
		return
	}

	if project.Image != nil {
		a.deleteStoredImage(ctx, *project.Image)
	}
	a.pageCache.Invalidate(ctx, cache.ProjectsKey)
	a.Projects(w, r)
}

// postForm holds parsed post editor inputs.
type postForm struct {
	title     string
	content   string
	tags      []string
	isDraft   bool
	isPrivate bool
	imageURL  string
}

// parsePostForm reads and validates the post editor form, uploading the
// featured image when one was attached. Returns a non-empty message on
// validation failure.
func (a *Admin) parsePostForm(w http.ResponseWriter, r *http.Request) (*postForm, string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "Upload too large. Maximum image size is 10 MB."
	}

	form := &postForm{
		title:     strings.TrimSpace(r.FormValue("title")),
		content:   r.FormValue("content"),
		tags:      parseTags(r.FormValue("tags")),
		isDraft:   r.FormValue("is_draft") != "",
		isPrivate: r.FormValue("is_private") != "",
	}

	if msg := validatePost(form.title, form.content); msg != "" {
		return nil, msg
	}

	url, msg := a.uploadImage(r, "featured_image", "posts")
	if msg != "" {
		return nil, msg
	}
	form.imageURL = url

	return form, ""
}

// parseProjectForm reads and validates the project editor form into base.
func (a *Admin) parseProjectForm(w http.ResponseWriter, r *http.Request, base *models.Project) (*models.Project, string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "Upload too large. Maximum image size is 10 MB."
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := r.FormValue("description")
	repoURL := strings.TrimSpace(r.FormValue("repo_url"))
	liveURL := strings.TrimSpace(r.FormValue("live_url"))

	if msg := validateProject(title, description, repoURL, liveURL); msg != "" {
		return nil, msg
	}

	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil || year < 1990 || year > time.Now().Year()+1 {
		return nil, "Year is not valid."
	}

	base.Title = title
	base.Description = description
	base.Tags = parseTags(r.FormValue("tags"))
	base.Year = year
	base.RepoURL = optional(repoURL)
	base.LiveURL = optional(liveURL)
	base.Status = optional(strings.TrimSpace(r.FormValue("status")))

	url, msg := a.uploadImage(r, "image", "projects")
	if msg != "" {
		return nil, msg
	}
	if url != "" {
		base.Image = &url
	}

	return base, ""
}

// uploadImage stores an attached image in S3 and returns its public URL.
// Returns ("", "") when the form carries no file.
func (a *Admin) uploadImage(r *http.Request, field, prefix string) (url, errMsg string) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", "" // no file attached
	}
	defer file.Close()

	if a.storageClient == nil {
		return "", "Image uploads require object storage, which is not configured."
	}
	if header.Size > maxUploadSize {
		return "", "Image too large. Maximum size is 10 MB."
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		return "", "Failed to read uploaded image."
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedImageTypes[contentType] {
		return "", fmt.Sprintf("File type %q is not allowed.", contentType)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", "Failed to process uploaded image."
	}

	now := time.Now()
	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("%s/%d/%02d/%s%s", prefix, now.Year(), now.Month(), uuid.New().String(), ext)

	uploaded, err := a.storageClient.Upload(r.Context(), key, contentType, file, header.Size)
	if err != nil {
		slog.Error("image upload failed", "error", err, "key", key)
		return "", "Image upload failed."
	}
	return uploaded, ""
}

// deleteStoredImage removes an uploaded object once no content references
// it. External image URLs are left alone; deletion is best-effort — the
// content change already happened and must not fail on storage errors.
func (a *Admin) deleteStoredImage(ctx context.Context, url string) {
	if a.storageClient == nil || url == "" {
		return
	}
	key, ok := a.storageClient.ExtractKey(url)
	if !ok {
		return
	}
	if err := a.storageClient.Delete(ctx, key); err != nil {
		slog.Warn("s3 image delete failed", "error", err, "key", key)
	}
}

// uniqueSlug appends a short suffix when the generated slug is taken.
func (a *Admin) uniqueSlug(ctx context.Context, base string) string {
	existing, err := a.posts.FindBySlug(ctx, base)
	if err != nil || existing == nil {
		return base
	}
	return base + "-" + uuid.New().String()[:8]
}

// findPost loads the post named by the {id} URL parameter, writing the
// appropriate error response when it can't.
func (a *Admin) findPost(w http.ResponseWriter, r *http.Request) (*models.BlogPost, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return nil, false
	}

	post, err := a.posts.FindByID(r.Context(), id)
	if err != nil {
		a.serverError(w, "find post failed", err)
		return nil, false
	}
	if post == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return post, true
}

// findProject loads the project named by the {id} URL parameter.
func (a *Admin) findProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return nil, false
	}

	project, err := a.projects.FindByID(r.Context(), id)
	if err != nil {
		a.serverError(w, "find project failed", err)
		return nil, false
	}
	if project == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return project, true
}

func (a *Admin) postEditError(w http.ResponseWriter, r *http.Request, post *models.BlogPost, action, msg string) {
	data := map[string]any{"Action": action, "Error": msg}
	if post != nil {
		data["Post"] = post
		data["TagsValue"] = strings.Join(post.Tags, ", ")
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	a.renderer.Page(w, r, "admin/post_edit", &render.PageData{
		Title:    "Edit post",
		Section:  "posts",
		SiteName: a.siteName,
		Data:     data,
	})
}

func (a *Admin) projectEditError(w http.ResponseWriter, r *http.Request, project *models.Project, action, msg string) {
	data := map[string]any{"Action": action, "Error": msg}
	if project != nil {
		data["Project"] = project
		data["TagsValue"] = strings.Join(project.Tags, ", ")
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	a.renderer.Page(w, r, "admin/project_edit", &render.PageData{
		Title:    "Edit project",
		Section:  "projects",
		SiteName: a.siteName,
		Data:     data,
	})
}

func (a *Admin) serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// optional converts an empty string to a nil pointer.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
