package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for form inputs.
const (
	maxTitleLen       = 300
	maxBodyLen        = 100_000
	maxCommentLen     = 4_000
	maxDescriptionLen = 2_000
	maxURLLen         = 500
	maxTagCount       = 10
	maxTagLen         = 40
)

// validatePost checks post form inputs and returns the first error found.
func validatePost(title, body string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateComment checks a sanitized comment body.
func validateComment(content string) string {
	if strings.TrimSpace(content) == "" {
		return "Comment cannot be empty."
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "Comment is too long (max 4,000 characters)."
	}
	return ""
}

// validateProject checks project form inputs and returns the first error found.
func validateProject(title, description, repoURL, liveURL string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 2,000 characters)."
	}
	if utf8.RuneCountInString(repoURL) > maxURLLen || utf8.RuneCountInString(liveURL) > maxURLLen {
		return "URL is too long (max 500 characters)."
	}
	return ""
}

// parseTags splits a comma-separated tag list, trimming whitespace and
// dropping empties. The list is capped to keep tag spam out.
func parseTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		if utf8.RuneCountInString(t) > maxTagLen {
			t = string([]rune(t)[:maxTagLen])
		}
		tags = append(tags, t)
		if len(tags) == maxTagCount {
			break
		}
	}
	return tags
}
