package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-places/pkg/simpleplaces"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// Request body limits
const (
	maxUploadSize     = 32 << 20
	maxSubmissionSize = 1 << 20
)

// Handler serves the place directory over HTTP
type Handler struct {
	service       simpleplaces.Service
	logger        *slog.Logger
	defaultTenant string
}

// NewHandler creates a new handler. defaultTenant is the configured fallback
// of tenant resolution.
func NewHandler(service simpleplaces.Service, logger *slog.Logger, defaultTenant string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger, defaultTenant: defaultTenant}
}

// Routes returns the public and editorial routes. Editorial routes are
// wrapped by editorial when it is not nil.
func (h *Handler) Routes(editorial func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(TenantMiddleware(h.defaultTenant))

	r.Get("/tenant", h.GetTenant)
	r.Get("/posts", h.ListPosts)
	r.Get("/posts/{slug}", h.GetPost)
	r.Get("/gallery/{slug}", h.GetGallery)
	r.Get("/sliders/{name}", h.ListSlider)

	r.Group(func(r chi.Router) {
		if editorial != nil {
			r.Use(editorial)
		}
		r.Post("/posts/check", h.CheckPost)
		r.Put("/posts/{slug}", h.SavePost)
		r.Delete("/posts/{slug}", h.TrashPost)
		r.Get("/gallery/{slug}/order", h.GetMediaOrder)
		r.Put("/gallery/{slug}/order", h.SetMediaOrder)
		r.Post("/gallery/{slug}/media", h.UploadMedia)
		r.Put("/sliders/{name}", h.ReplaceSlider)
	})

	return r
}

func currentTenant(r *http.Request) tenant.Tenant {
	if t, ok := tenant.FromContext(r.Context()); ok {
		return t
	}
	return tenant.Default().DefaultTenant()
}

// GetTenant returns the tenant the request resolved to
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, currentTenant(r))
}

// ListPosts returns every live post of the tenant in slug order
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context(), currentTenant(r).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, posts)
}

// GetPost returns one post
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), currentTenant(r).ID, chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

// decodeSubmission reads a JSON object body of at most maxSubmissionSize bytes
func decodeSubmission(w http.ResponseWriter, r *http.Request) (simpleplaces.Submission, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionSize))
	if err != nil {
		return nil, err
	}
	return simpleplaces.DecodeSubmission(data)
}

// SavePost replaces a post. The slug in the URL wins over any slug in the body.
func (h *Handler) SavePost(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeSubmission(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sub["slug"] = chi.URLParam(r, "slug")

	post, err := h.service.SavePost(r.Context(), currentTenant(r).ID, sub)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

// CheckResponse is the response body of a dry-run check
type CheckResponse struct {
	Post   *simpleplaces.Post            `json:"post"`
	Result simpleplaces.ValidationResult `json:"result"`
}

// CheckPost normalizes and validates a submission without storing it
func (h *Handler) CheckPost(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeSubmission(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	post, result := h.service.CheckPost(r.Context(), sub)
	render.JSON(w, r, CheckResponse{Post: post, Result: result})
}

// TrashPost moves a post to the trash
func (h *Handler) TrashPost(w http.ResponseWriter, r *http.Request) {
	if err := h.service.TrashPost(r.Context(), currentTenant(r).ID, chi.URLParam(r, "slug")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGallery returns a post's media in display order
func (h *Handler) GetGallery(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Gallery(r.Context(), currentTenant(r).ID, chi.URLParam(r, "slug"), r.URL.Query().Get("key"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, items)
}

// MediaOrderRequest is the request body for replacing an order list
type MediaOrderRequest struct {
	Key   string   `json:"key"`
	Order []string `json:"order"`
}

// GetMediaOrder returns the stored order list of a gallery
func (h *Handler) GetMediaOrder(w http.ResponseWriter, r *http.Request) {
	spec, err := h.service.GetMediaOrder(r.Context(), currentTenant(r).ID, chi.URLParam(r, "slug"), r.URL.Query().Get("key"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, spec)
}

// SetMediaOrder replaces the order list of a gallery
func (h *Handler) SetMediaOrder(w http.ResponseWriter, r *http.Request) {
	var req MediaOrderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.badRequest(w, r, "invalid media order body", err)
		return
	}

	spec, err := h.service.SetMediaOrder(r.Context(), currentTenant(r).ID, simpleplaces.MediaOrderSpec{
		Set:   chi.URLParam(r, "slug"),
		Key:   req.Key,
		Order: req.Order,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, spec)
}

// UploadMedia stores the multipart "file" field in a post's gallery
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.badRequest(w, r, "multipart field \"file\" is required", err)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	item, err := h.service.UploadMedia(r.Context(), currentTenant(r).ID, chi.URLParam(r, "slug"), header.Filename, file, mimeType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

// SliderRequest is the request body for replacing a slider
type SliderRequest struct {
	Items []simpleplaces.SliderItem `json:"items"`
}

// ListSlider returns the active items of a slider for the lang query
// parameter. Items without a language are always included.
func (h *Handler) ListSlider(w http.ResponseWriter, r *http.Request) {
	var lang simpleplaces.Language
	if raw := r.URL.Query().Get("lang"); raw != "" {
		l, ok := simpleplaces.ParseLanguage(raw)
		if !ok {
			h.badRequest(w, r, "unsupported language", nil)
			return
		}
		lang = l
	}

	items, err := h.service.ListSlider(r.Context(), currentTenant(r).ID, chi.URLParam(r, "name"), lang)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, items)
}

// ReplaceSlider replaces every item of a slider
func (h *Handler) ReplaceSlider(w http.ResponseWriter, r *http.Request) {
	var req SliderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.badRequest(w, r, "invalid slider body", err)
		return
	}

	items, err := h.service.ReplaceSlider(r.Context(), currentTenant(r).ID, chi.URLParam(r, "name"), req.Items)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, items)
}
