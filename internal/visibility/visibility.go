// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

// Package visibility decides which blog posts a viewer may see and in
// what order. It is pure: storage hands it candidate posts, it filters
// and sorts.
package visibility

import (
	"sort"
	"time"

	"folio/internal/models"
)

// VisiblePosts filters posts for a viewer and sorts them newest first.
//
// Drafts are never shown, not even to admins — the admin panel lists
// them through its own unfiltered view. Private posts are shown only to
// admins. Posts missing a published timestamp sort as if published at
// the epoch, so they sink to the end rather than float to the top. The
// sort is stable: posts with equal timestamps keep their input order.
func VisiblePosts(posts []models.BlogPost, isAdmin bool) []models.BlogPost {
	visible := make([]models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if p.IsDraft {
			continue
		}
		if p.IsPrivate && !isAdmin {
			continue
		}
		visible = append(visible, p)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return publishedAt(&visible[i]).After(publishedAt(&visible[j]))
	})
	return visible
}

// CanView reports whether a single post is viewable by the viewer,
// using the same rules as VisiblePosts.
func CanView(p *models.BlogPost, isAdmin bool) bool {
	if p == nil || p.IsDraft {
		return false
	}
	return !p.IsPrivate || isAdmin
}

func publishedAt(p *models.BlogPost) time.Time {
	if p.Published == nil {
		return time.Unix(0, 0).UTC()
	}
	return *p.Published
}
