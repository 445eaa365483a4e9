package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"folio/internal/cache"
	"folio/internal/middleware"
	"folio/internal/models"
)

// seedPost creates a post directly through the store and registers cleanup.
func seedPost(t *testing.T, env *testEnv, post *models.BlogPost) *models.BlogPost {
	t.Helper()
	created, err := env.Posts.Create(t.Context(), post)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	t.Cleanup(func() { cleanPosts(t, env.DB, created.Slug) })
	return created
}

func TestBlogIndexHidesUnpublishable(t *testing.T) {
	env := newTestEnv(t)

	visible := seedPost(t, env, &models.BlogPost{
		Title: "Visible Entry", Slug: "__test_visible_entry", Content: "x",
		Author: "A", AuthorEmail: "a@example.com",
	})
	private := seedPost(t, env, &models.BlogPost{
		Title: "Private Entry", Slug: "__test_private_entry", Content: "x",
		Author: "A", AuthorEmail: "a@example.com", IsPrivate: true,
	})
	draft := seedPost(t, env, &models.BlogPost{
		Title: "Draft Entry", Slug: "__test_draft_entry", Content: "x",
		Author: "A", AuthorEmail: "a@example.com", IsDraft: true,
	})

	t.Run("anonymous sees only public published posts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/blog", nil)
		rec := httptest.NewRecorder()
		env.PageCache.Invalidate(req.Context(), cache.BlogIndexKey)

		env.Public.Blog(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status: %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, visible.Title) {
			t.Error("public post missing from index")
		}
		if strings.Contains(body, private.Title) {
			t.Error("private post leaked to anonymous index")
		}
		if strings.Contains(body, draft.Title) {
			t.Error("draft leaked to index")
		}
	})

	t.Run("admin sees private but still no drafts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/blog", nil)
		req = withViewer(req, testViewer("google:admin", "admin@example.com", true))
		rec := httptest.NewRecorder()

		env.Public.Blog(rec, req)

		body := rec.Body.String()
		if !strings.Contains(body, private.Title) {
			t.Error("admin should see private posts in the index")
		}
		if strings.Contains(body, draft.Title) {
			t.Error("drafts must stay out of the index even for admins")
		}
	})
}

func TestPostVisibility(t *testing.T) {
	env := newTestEnv(t)

	private := seedPost(t, env, &models.BlogPost{
		Title: "Private Detail", Slug: "__test_private_detail", Content: "secret body",
		Author: "A", AuthorEmail: "a@example.com", IsPrivate: true,
	})
	draft := seedPost(t, env, &models.BlogPost{
		Title: "Draft Detail", Slug: "__test_draft_detail", Content: "x",
		Author: "A", AuthorEmail: "a@example.com", IsDraft: true,
	})

	get := func(slug string, admin bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/blog/"+slug, nil)
		req = withChiURLParam(req, "slug", slug)
		if admin {
			req = withViewer(req, testViewer("google:admin", "admin@example.com", true))
		}
		rec := httptest.NewRecorder()
		env.PageCache.Invalidate(req.Context(), cache.PostKey(slug))
		env.Public.Post(rec, req)
		return rec
	}

	if rec := get(private.Slug, false); rec.Code != http.StatusNotFound {
		t.Errorf("anonymous on private post: got %d, want 404", rec.Code)
	}
	if rec := get(private.Slug, true); rec.Code != http.StatusOK {
		t.Errorf("admin on private post: got %d, want 200", rec.Code)
	}
	if rec := get(draft.Slug, true); rec.Code != http.StatusNotFound {
		t.Errorf("admin on draft: got %d, want 404 (drafts render only in the editor)", rec.Code)
	}
	if rec := get("__test_missing_post", false); rec.Code != http.StatusNotFound {
		t.Errorf("missing slug: got %d, want 404", rec.Code)
	}
}

func TestPostRendersMarkdown(t *testing.T) {
	env := newTestEnv(t)

	post := seedPost(t, env, &models.BlogPost{
		Title: "Markdown Post", Slug: "__test_markdown_post",
		Content: "# Heading\n\nSome **bold** text.\n\n<script>alert(1)</script>",
		Author:  "A", AuthorEmail: "a@example.com",
	})

	req := httptest.NewRequest(http.MethodGet, "/blog/"+post.Slug, nil)
	req = withChiURLParam(req, "slug", post.Slug)
	rec := httptest.NewRecorder()
	env.PageCache.Invalidate(req.Context(), cache.PostKey(post.Slug))

	env.Public.Post(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Error("markdown emphasis not rendered")
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("script tag survived sanitization")
	}
}

func TestPageCacheServesAnonymousOnly(t *testing.T) {
	env := newTestEnv(t)

	seedPost(t, env, &models.BlogPost{
		Title: "Cache Probe", Slug: "__test_cache_probe", Content: "x",
		Author: "A", AuthorEmail: "a@example.com",
	})

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	env.PageCache.Invalidate(req.Context(), cache.BlogIndexKey)

	// First anonymous request populates the cache.
	env.Public.Blog(httptest.NewRecorder(), req)
	if _, ok := env.PageCache.Get(req.Context(), cache.BlogIndexKey); !ok {
		t.Fatal("anonymous request should populate the page cache")
	}

	// A signed-in request must not be served the cached anonymous page;
	// the cached copy stays untouched while the response renders fresh.
	signedReq := withViewer(httptest.NewRequest(http.MethodGet, "/blog", nil),
		testViewer("google:u", "u@example.com", false))
	rec := httptest.NewRecorder()
	env.Public.Blog(rec, signedReq)
	if !strings.Contains(rec.Body.String(), "Sign out") {
		t.Error("signed-in viewer should get a freshly rendered page with their nav")
	}

	// Debug requests bypass the cache too. The flag is set by the Debug
	// middleware, so route through it like the real chain does.
	env.PageCache.Set(req.Context(), cache.BlogIndexKey, []byte("STALE SENTINEL"))
	debugReq := httptest.NewRequest(http.MethodGet, "/blog?debug=true", nil)
	rec = httptest.NewRecorder()
	middleware.Debug(http.HandlerFunc(env.Public.Blog)).ServeHTTP(rec, debugReq)
	if strings.Contains(rec.Body.String(), "STALE SENTINEL") {
		t.Error("debug request was served from the cache")
	}
	env.PageCache.Invalidate(req.Context(), cache.BlogIndexKey)
}

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)

	post := seedPost(t, env, &models.BlogPost{
		Title: "Comment Target", Slug: "__test_comment_target", Content: "x",
		Author: "A", AuthorEmail: "a@example.com",
	})

	postComment := func(viewerAdmin bool, content string) *httptest.ResponseRecorder {
		form := url.Values{"content": {content}}
		req := httptest.NewRequest(http.MethodPost, "/blog/"+post.Slug+"/comments",
			strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req = withChiURLParam(req, "slug", post.Slug)
		req = withViewer(req, testViewer("google:commenter", "commenter@example.com", viewerAdmin))
		rec := httptest.NewRecorder()
		env.Public.CreateComment(rec, req)
		return rec
	}

	t.Run("stores comment and redirects", func(t *testing.T) {
		rec := postComment(false, "great post")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status: got %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "#comments") {
			t.Errorf("redirect location: %q", loc)
		}

		comments, err := env.Comments.ListByPost(t.Context(), post.ID)
		if err != nil {
			t.Fatalf("ListByPost: %v", err)
		}
		if len(comments) != 1 {
			t.Fatalf("got %d comments, want 1", len(comments))
		}
		c := comments[0]
		if c.AuthorEmail != "commenter@example.com" {
			t.Errorf("author email from session: got %q", c.AuthorEmail)
		}
		if c.IsModerated {
			t.Error("new comment must not be moderated")
		}
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		rec := postComment(false, "   ")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})

	t.Run("markup stripped from comment", func(t *testing.T) {
		rec := postComment(false, `hello <b>world</b><script>alert(1)</script>`)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status: %d", rec.Code)
		}
		comments, err := env.Comments.ListByPost(t.Context(), post.ID)
		if err != nil {
			t.Fatalf("ListByPost: %v", err)
		}
		last := comments[len(comments)-1]
		if strings.Contains(last.Content, "<") {
			t.Errorf("markup survived in comment: %q", last.Content)
		}
	})
}

func TestDeleteComment(t *testing.T) {
	env := newTestEnv(t)

	post := seedPost(t, env, &models.BlogPost{
		Title: "Moderated Target", Slug: "__test_moderated_target", Content: "x",
		Author: "A", AuthorEmail: "a@example.com",
	})
	comment, err := env.Comments.Create(t.Context(), &models.Comment{
		PostID: post.ID, Content: "spam", Author: "S", AuthorEmail: "s@example.com",
	})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost,
		"/blog/"+post.Slug+"/comments/"+comment.ID.String()+"/delete", nil)
	req = withChiURLParams(req, map[string]string{
		"slug": post.Slug,
		"id":   comment.ID.String(),
	})
	rec := httptest.NewRecorder()

	env.Public.DeleteComment(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rec.Code)
	}
	comments, err := env.Comments.ListByPost(t.Context(), post.ID)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("comment not deleted, %d remain", len(comments))
	}
}

func TestLoginRedirectsSignedIn(t *testing.T) {
	env := newTestEnv(t)

	req := withViewer(httptest.NewRequest(http.MethodGet, "/login", nil),
		testViewer("google:u", "u@example.com", false))
	rec := httptest.NewRecorder()

	env.Public.Login(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location: %q", loc)
	}
}
