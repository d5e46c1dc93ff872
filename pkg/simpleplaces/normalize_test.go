package simpleplaces

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+56 9 1234 5678", "tel:+56912345678"},
		{"tel:+123", "tel:+123"},
		{"TEL: 22 345 67", "tel:2234567"},
		{"(2) 2345-6789", "tel:223456789"},
		{"56+9", "tel:569"},
		{"  ", ""},
		{"", ""},
		{"n/a", "tel:"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizePhone(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizePhone(got), "not idempotent")
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{" www.cafe.cl/menu ", "https://www.cafe.cl/menu"},
		{"http://example.com", "http://example.com"},
		{"HTTPS://example.com", "HTTPS://example.com"},
		{"mailto:hola@cafe.cl", "mailto:hola@cafe.cl"},
		{"not a url", "not a url"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestNormalize_Submission(t *testing.T) {
	sub := Submission{
		"slug": "  cafe-central ",
		"es": map[string]any{
			"name":        " Café Central ",
			"description": []any{"Primer párrafo.", "  ", "Segundo."},
			"category":    "Cafés",
		},
		"contact": map[string]any{
			"phone":   "+56 9 1234 5678",
			"website": "cafecentral.cl",
		},
		"instagram":  "@cafecentral",
		"media":      []any{"a.jpg", "b.jpg", "a.jpg", " ", 7},
		"categories": []any{"Cafés", "Cafés"},
		"locations": []any{
			map[string]any{"name": "Providencia", "telephone": "2 2345 6789"},
			"not an object",
		},
	}

	p := Normalize(sub)

	assert.Equal(t, "cafe-central", p.Slug)
	assert.Equal(t, "Café Central", p.Content[LangES].Name)
	assert.Equal(t, []string{"Primer párrafo.", "Segundo."}, p.Content[LangES].Description)
	assert.Equal(t, "Cafés", p.Content[LangES].Category)
	assert.Equal(t, "tel:+56912345678", p.Contact.Phone)
	assert.Equal(t, "https://cafecentral.cl", p.Contact.Website)
	assert.Equal(t, "@cafecentral", p.Contact.Social)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Media)
	assert.Equal(t, []string{"Cafés"}, p.Categories)
	require.Len(t, p.Locations, 1)
	assert.Equal(t, "Providencia", p.Locations[0].Name)
	assert.Equal(t, "tel:223456789", p.Locations[0].Phone)
}

func TestNormalize_MissingLanguageBlocksAreEmpty(t *testing.T) {
	p := Normalize(Submission{"slug": "solo-slug"})

	for _, lang := range Languages {
		c, ok := p.Content[lang]
		require.True(t, ok, "missing %s block", lang)
		assert.Equal(t, "", c.Name)
		assert.NotNil(t, c.Description)
		assert.Empty(t, c.Description)
	}
	assert.Equal(t, "", p.Contact.Phone)
	assert.NotNil(t, p.Media)
	assert.NotNil(t, p.Locations)
}

func TestNormalize_NestedContent(t *testing.T) {
	p := Normalize(Submission{
		"slug": "museo",
		"content": map[string]any{
			"en": map[string]any{"name": "Museum", "freeformInfo": "Closed Mondays"},
		},
	})
	assert.Equal(t, "Museum", p.Content[LangEN].Name)
	assert.Equal(t, "Closed Mondays", p.Content[LangEN].Info)
}

func TestNormalize_FlatKeysOverrideNestedContact(t *testing.T) {
	p := Normalize(Submission{
		"contact": map[string]any{"email": "old@cafe.cl", "address": "Calle 1"},
		"email":   "new@cafe.cl",
	})
	assert.Equal(t, "new@cafe.cl", p.Contact.Email)
	assert.Equal(t, "Calle 1", p.Contact.Address)
}

func TestNormalize_WrongShapesAreEmpty(t *testing.T) {
	p := Normalize(Submission{
		"slug":      42,
		"es":        "not an object",
		"media":     "a.jpg",
		"phone":     5551234,
		"locations": map[string]any{"name": "x"},
	})
	assert.Equal(t, "", p.Slug)
	assert.Equal(t, "", p.Content[LangES].Name)
	assert.Empty(t, p.Media)
	assert.Equal(t, "", p.Contact.Phone)
	assert.Empty(t, p.Locations)
}

func TestNormalizePost_Idempotent(t *testing.T) {
	inputs := []Submission{
		{"slug": "cafe-central", "phone": "+56 9 1234 5678", "web": "cafe.cl", "media": []any{"a.jpg", "a.jpg"}},
		{"es": map[string]any{"description": []any{" uno ", "", "dos"}}},
		{},
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := NormalizePost(once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("NormalizePost not idempotent (-once +twice):\n%s", diff)
		}
	}
}

func TestNormalizeJSON(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		p, err := NormalizeJSON([]byte(`{"slug":"cafe","phone":"+56 2 1"}`))
		require.NoError(t, err)
		assert.Equal(t, "cafe", p.Slug)
		assert.Equal(t, "tel:+5621", p.Contact.Phone)
	})

	for _, data := range []string{`[]`, `"cafe"`, `null`, `{broken`} {
		t.Run(data, func(t *testing.T) {
			_, err := NormalizeJSON([]byte(data))
			assert.ErrorIs(t, err, ErrMalformedSubmission)
		})
	}
}

func TestSubmissionFrom(t *testing.T) {
	sub, err := SubmissionFrom(map[string]any{"slug": "cafe"})
	require.NoError(t, err)
	assert.Equal(t, "cafe", sub["slug"])

	for _, raw := range []any{nil, []any{"cafe"}, "cafe", map[any]any{"slug": "cafe"}} {
		_, err := SubmissionFrom(raw)
		assert.ErrorIs(t, err, ErrMalformedSubmission)
	}
}

func TestPost_JSONRoundTripStaysCanonical(t *testing.T) {
	p := Normalize(Submission{
		"slug":      "cafe-central",
		"es":        map[string]any{"name": "Café", "description": []any{"Uno."}},
		"phone":     "+56 9 1234 5678",
		"media":     []any{"a.jpg"},
		"locations": []any{map[string]any{"name": "Centro", "website": "cafe.cl"}},
	})

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var back Post
	require.NoError(t, json.Unmarshal(data, &back))

	if diff := cmp.Diff(p, NormalizePost(back)); diff != "" {
		t.Errorf("round trip changed the post (-want +got):\n%s", diff)
	}
}
