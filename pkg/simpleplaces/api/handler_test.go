package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-places/pkg/simpleplaces"
	"github.com/tendant/simple-places/pkg/simpleplaces/repo/memory"
	memorystorage "github.com/tendant/simple-places/pkg/simpleplaces/storage/memory"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// setupRouter mounts the handler the way cmd/server does, without auth
func setupRouter(t *testing.T) http.Handler {
	svc, err := simpleplaces.New(
		simpleplaces.WithRepository(memory.New()),
		simpleplaces.WithMediaStore(memorystorage.New("https://cdn.example.com")),
	)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(DomainMiddleware(nil))
	r.Mount("/", NewHandler(svc, nil, "").Routes(nil))
	return r
}

func do(t *testing.T, h http.Handler, method, target, host string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if host != "" {
		req.Host = host
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_TenantResolution(t *testing.T) {
	h := setupRouter(t)

	tests := []struct {
		name   string
		target string
		host   string
		header string
		want   tenant.ID
	}{
		{"domain", "/tenant", "www.guiavalparaiso.cl", "", tenant.Valparaiso},
		{"unknown domain falls back", "/tenant", "localhost:8080", "", tenant.Santiago},
		{"preview override", "/tenant?site=valparaiso", "guiasantiago.cl", "", tenant.Valparaiso},
		{"admin override beats preview", "/tenant?admin_site=santiago&site=valparaiso", "guiavalparaiso.cl", "", tenant.Santiago},
		{"client header is ignored", "/tenant", "localhost", "valparaiso", tenant.Santiago},
		{"garbage override skipped", "/tenant?site=lima", "guiavalparaiso.cl", "", tenant.Valparaiso},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Host = tt.host
			if tt.header != "" {
				req.Header.Set(tenant.Header, tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var got tenant.Tenant
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestHandler_PostLifecycle(t *testing.T) {
	h := setupRouter(t)
	host := "guiasantiago.cl"

	w := do(t, h, http.MethodPut, "/posts/cafe-central", host, map[string]any{
		"slug":  "ignored",
		"es":    map[string]any{"name": "Café Central"},
		"phone": "+56 9 1234 5678",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved simpleplaces.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, "cafe-central", saved.Slug)
	assert.Equal(t, "tel:+56912345678", saved.Contact.Phone)

	w = do(t, h, http.MethodGet, "/posts/cafe-central", host, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/posts/cafe-central", "guiavalparaiso.cl", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/posts", host, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var posts []simpleplaces.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	assert.Len(t, posts, 1)

	w = do(t, h, http.MethodDelete, "/posts/cafe-central", host, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/posts/cafe-central", host, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/posts/cafe-central__trashed", host, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_SavePostValidationFailure(t *testing.T) {
	h := setupRouter(t)

	w := do(t, h, http.MethodPut, "/posts/Cafe_Central", "", map[string]any{"phone": "call us"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	paths := []string{}
	for _, i := range resp.Issues {
		paths = append(paths, i.Path)
	}
	assert.ElementsMatch(t, []string{"slug", "contact.phone"}, paths)
}

func TestHandler_MalformedBody(t *testing.T) {
	h := setupRouter(t)

	for _, body := range []string{`[1,2]`, `{nope`, `"text"`} {
		w := do(t, h, http.MethodPut, "/posts/cafe", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestHandler_OversizedSubmission(t *testing.T) {
	h := setupRouter(t)

	body := `{"slug":"cafe","es":{"description":["` + strings.Repeat("a", maxSubmissionSize) + `"]}}`
	w := do(t, h, http.MethodPut, "/posts/cafe", "", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(t, h, http.MethodPost, "/posts/check", "", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandler_CheckPost(t *testing.T) {
	h := setupRouter(t)

	w := do(t, h, http.MethodPost, "/posts/check", "", map[string]any{"slug": "cafe", "website": "cafe.cl"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Result.OK)
	assert.Equal(t, "https://cafe.cl", resp.Post.Contact.Website)
	assert.NotEmpty(t, resp.Result.Warnings)

	w = do(t, h, http.MethodGet, "/posts/check", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func upload(t *testing.T, h http.Handler, target, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_Gallery(t *testing.T) {
	h := setupRouter(t)

	for _, name := range []string{"menu.jpg", "portada.jpg", "bar-noche.jpg"} {
		w := upload(t, h, "/gallery/cafe-central/media", name)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(t, h, http.MethodGet, "/gallery/cafe-central", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []simpleplaces.GalleryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "portada.jpg", items[0].Name)
	assert.Equal(t, "https://cdn.example.com/santiago/cafe-central/portada.jpg", items[0].URL)

	w = do(t, h, http.MethodPut, "/gallery/cafe-central/order", "", MediaOrderRequest{Key: "en", Order: []string{"bar-noche.jpg"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/gallery/cafe-central?key=en", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Equal(t, "bar-noche.jpg", items[0].Name)

	w = do(t, h, http.MethodGet, "/gallery/cafe-central/order?key=es", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/gallery/cafe-central/media", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Slider(t *testing.T) {
	h := setupRouter(t)

	w := do(t, h, http.MethodPut, "/sliders/home", "", SliderRequest{Items: []simpleplaces.SliderItem{
		{ImageURL: "https://cdn.example.com/a.jpg", Active: true},
		{ImageURL: "https://cdn.example.com/b.jpg", Active: true, Language: simpleplaces.LangEN},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/sliders/home?lang=es", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []simpleplaces.SliderItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "https://cdn.example.com/a.jpg", items[0].ImageURL)

	w = do(t, h, http.MethodGet, "/sliders/home?lang=xx", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, "/sliders/home", "", SliderRequest{Items: []simpleplaces.SliderItem{{ImageURL: ""}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "invalid slider"))
}
