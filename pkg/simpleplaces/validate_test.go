package simpleplaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"cafe-central", true},
		{"cafe2", true},
		{"Cafe-Central", false},
		{"__trashed", true},
		{"cafe-central__trashed", true},
		{"cafe_central", false},
		{"cafe--central", false},
		{"-cafe", false},
		{"", false},
		{"café", false},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidSlug(tt.slug))
		})
	}
}

func issuePaths(issues []Issue) []string {
	paths := make([]string, 0, len(issues))
	for _, i := range issues {
		paths = append(paths, i.Path)
	}
	return paths
}

func TestValidate_SlugOnlyPostIsValid(t *testing.T) {
	res := Validate(Normalize(Submission{"slug": "cafe-central"}))

	assert.True(t, res.OK)
	assert.Empty(t, res.Issues)
	assert.ElementsMatch(t, []string{
		"content.es.name", "content.es.description",
		"content.en.name", "content.en.description",
	}, issuePaths(res.Warnings))
}

func TestValidate_Slug(t *testing.T) {
	res := Validate(Normalize(Submission{}))
	assert.False(t, res.OK)
	assert.Equal(t, []string{"slug"}, issuePaths(res.Issues))

	res = Validate(Normalize(Submission{"slug": "Cafe Central"}))
	assert.False(t, res.OK)
	assert.Equal(t, []string{"slug"}, issuePaths(res.Issues))
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	p := Normalize(Submission{
		"slug":             "cafe-central",
		"phone":            "call us",
		"website":          "ftp://cafe.cl",
		"reservation_link": "not a link",
		"locations": []any{
			map[string]any{"phone": "+56 2 1234"},
			map[string]any{"phone": "none"},
		},
	})
	p.Content[LangES] = LocalizedContent{Name: "Café", Description: []string{"Uno", " "}}
	p.Media = []string{"a.jpg", "", "a.jpg"}
	p.Categories = []string{""}

	res := Validate(p)

	assert.False(t, res.OK)
	assert.ElementsMatch(t, []string{
		"content.es.description.1",
		"contact.phone",
		"media.1",
		"media.2",
		"categories.0",
		"locations.1.phone",
	}, issuePaths(res.Issues))
	assert.Subset(t, issuePaths(res.Warnings), []string{"contact.website", "contact.reservation_link"})
}

func TestValidate_FreeTextLinksOnlyWarn(t *testing.T) {
	res := Validate(Normalize(Submission{"slug": "cafe-central", "website": "ver instagram"}))

	assert.True(t, res.OK)
	assert.Empty(t, res.Issues)

	var linkWarnings []Issue
	for _, w := range res.Warnings {
		if w.Path == "contact.website" {
			linkWarnings = append(linkWarnings, w)
		}
	}
	require.Len(t, linkWarnings, 1)
	assert.Equal(t, "website is not an absolute http(s) URL", linkWarnings[0].Message)

	res = Validate(Normalize(Submission{
		"slug":      "cafe-central",
		"locations": []any{map[string]any{"reservation_link": "llamar antes"}},
	}))
	assert.True(t, res.OK)
	assert.Contains(t, issuePaths(res.Warnings), "locations.0.reservation_link")
}

func TestValidate_DuplicateMediaNamesFirstIndex(t *testing.T) {
	p := Normalize(Submission{"slug": "cafe"})
	p.Media = []string{"a.jpg", "b.jpg", "a.jpg"}

	res := Validate(p)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "media.2", res.Issues[0].Path)
	assert.Equal(t, "duplicate of media.0", res.Issues[0].Message)
}

func TestValidate_UnsupportedLanguage(t *testing.T) {
	p := Normalize(Submission{"slug": "cafe"})
	p.Content["pt"] = LocalizedContent{Name: "Café"}
	p.Content["fr"] = LocalizedContent{Name: "Café"}

	res := Validate(p)
	assert.False(t, res.OK)
	assert.Equal(t, []string{"content.fr", "content.pt"}, issuePaths(res.Issues))
}

func TestValidate_NormalizedInputNeverFailsOnShape(t *testing.T) {
	res := Validate(Normalize(Submission{
		"slug":    "cafe-central",
		"phone":   "+56 9 1234 5678",
		"website": "cafe.cl",
		"media":   []any{"a.jpg", "a.jpg", ""},
		"es":      map[string]any{"name": "Café", "description": []any{"", "Uno"}},
	}))
	assert.True(t, res.OK, "issues: %v", res.Issues)
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone(""))
	assert.True(t, ValidPhone("tel:+56912345678"))
	assert.True(t, ValidPhone("tel:223456789"))
	assert.False(t, ValidPhone("tel:"))
	assert.False(t, ValidPhone("+56912345678"))
	assert.False(t, ValidPhone("tel:+56 9"))
}
