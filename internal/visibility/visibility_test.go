// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

package visibility

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func post(title string, draft, private bool, published *time.Time) models.BlogPost {
	return models.BlogPost{
		ID:        uuid.New(),
		Title:     title,
		IsDraft:   draft,
		IsPrivate: private,
		Published: published,
	}
}

func titles(posts []models.BlogPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestVisiblePosts(t *testing.T) {
	input := []models.BlogPost{
		post("draft", true, false, nil),
		post("old", false, false, ts("2024-01-01T00:00:00Z")),
		post("private", false, true, ts("2025-06-01T00:00:00Z")),
		post("new", false, false, ts("2026-03-01T00:00:00Z")),
		post("private-draft", true, true, nil),
		post("no-timestamp", false, false, nil),
	}

	t.Run("anonymous viewer", func(t *testing.T) {
		got := titles(VisiblePosts(input, false))
		want := []string{"new", "old", "no-timestamp"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("admin viewer sees private but never drafts", func(t *testing.T) {
		got := titles(VisiblePosts(input, true))
		want := []string{"new", "private", "old", "no-timestamp"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("missing published timestamp sorts last", func(t *testing.T) {
		got := VisiblePosts(input, false)
		if got[len(got)-1].Title != "no-timestamp" {
			t.Errorf("expected no-timestamp post last, got %v", titles(got))
		}
	})

	t.Run("equal timestamps keep input order", func(t *testing.T) {
		same := ts("2025-01-01T00:00:00Z")
		in := []models.BlogPost{
			post("first", false, false, same),
			post("second", false, false, same),
			post("third", false, false, same),
		}
		got := titles(VisiblePosts(in, false))
		want := []string{"first", "second", "third"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: got %q, want %q (sort must be stable)", i, got[i], want[i])
			}
		}
	})

	t.Run("input is not mutated", func(t *testing.T) {
		in := []models.BlogPost{
			post("b", false, false, ts("2024-01-01T00:00:00Z")),
			post("a", false, false, ts("2026-01-01T00:00:00Z")),
		}
		VisiblePosts(in, false)
		if in[0].Title != "b" || in[1].Title != "a" {
			t.Error("VisiblePosts mutated its input slice")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := VisiblePosts(nil, true); len(got) != 0 {
			t.Errorf("expected empty result, got %v", titles(got))
		}
	})
}

func TestCanView(t *testing.T) {
	pub := post("pub", false, false, ts("2025-01-01T00:00:00Z"))
	priv := post("priv", false, true, ts("2025-01-01T00:00:00Z"))
	draft := post("draft", true, false, nil)

	tests := []struct {
		name    string
		post    *models.BlogPost
		isAdmin bool
		want    bool
	}{
		{"public post, anonymous", &pub, false, true},
		{"private post, anonymous", &priv, false, false},
		{"private post, admin", &priv, true, true},
		{"draft, admin", &draft, true, false},
		{"draft, anonymous", &draft, false, false},
		{"nil post", nil, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(tt.post, tt.isAdmin); got != tt.want {
				t.Errorf("CanView() = %v, want %v", got, tt.want)
			}
		})
	}
}
