package handlers

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidatePost(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		body    string
		wantErr bool
	}{
		{"valid", "Hello", "some content", false},
		{"empty body ok", "Hello", "", false},
		{"empty title", "", "content", true},
		{"whitespace title", "   ", "content", true},
		{"title at limit", strings.Repeat("a", maxTitleLen), "x", false},
		{"title over limit", strings.Repeat("a", maxTitleLen+1), "x", true},
		{"body over limit", "Hello", strings.Repeat("a", maxBodyLen+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validatePost(tt.title, tt.body)
			if (msg != "") != tt.wantErr {
				t.Errorf("validatePost(%q, len %d) = %q, wantErr %v", tt.title, len(tt.body), msg, tt.wantErr)
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", "nice post", false},
		{"empty", "", true},
		{"whitespace only", "  \n\t ", true},
		{"at limit", strings.Repeat("a", maxCommentLen), false},
		{"over limit", strings.Repeat("a", maxCommentLen+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateComment(tt.content)
			if (msg != "") != tt.wantErr {
				t.Errorf("validateComment = %q, wantErr %v", msg, tt.wantErr)
			}
		})
	}
}

func TestValidateProject(t *testing.T) {
	longURL := strings.Repeat("x", maxURLLen+1)

	tests := []struct {
		name                             string
		title, description, repo, live   string
		wantErr                          bool
	}{
		{"valid", "Folio", "a website", "https://example.com/repo", "", false},
		{"no urls", "Folio", "a website", "", "", false},
		{"empty title", "", "d", "", "", true},
		{"long description", "Folio", strings.Repeat("a", maxDescriptionLen+1), "", "", true},
		{"long repo url", "Folio", "d", longURL, "", true},
		{"long live url", "Folio", "d", "", longURL, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateProject(tt.title, tt.description, tt.repo, tt.live)
			if (msg != "") != tt.wantErr {
				t.Errorf("validateProject = %q, wantErr %v", msg, tt.wantErr)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"simple", "go,postgres", []string{"go", "postgres"}},
		{"whitespace trimmed", " go , postgres ", []string{"go", "postgres"}},
		{"empties dropped", "go,,  ,postgres", []string{"go", "postgres"}},
		{"empty input", "", nil},
		{"only commas", ",,,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTags(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseTags(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}

	t.Run("count capped", func(t *testing.T) {
		raw := strings.Repeat("t,", maxTagCount+5)
		got := parseTags(raw)
		if len(got) != maxTagCount {
			t.Errorf("got %d tags, want %d", len(got), maxTagCount)
		}
	})

	t.Run("long tag truncated", func(t *testing.T) {
		got := parseTags(strings.Repeat("a", maxTagLen+10))
		if len(got) != 1 || len(got[0]) != maxTagLen {
			t.Errorf("got %v", got)
		}
	})
}
